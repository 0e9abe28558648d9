package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/metrics"
)

// NotifyService pushes status transition events to a configured webhook.
// Delivery is best-effort: failures are logged and never surface to the
// caller, a flaky webhook must not block approvals.
type NotifyService struct {
	webhookURL string
	client     *http.Client
}

func NewNotifyService(cfg *config.NotifyConfig) *NotifyService {
	cfg.SetDefaults()
	return &NotifyService{
		webhookURL: cfg.WebhookURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
}

type transitionEvent struct {
	Event         string    `json:"event"`
	RequestID     uint      `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	Subject       string    `json:"subject"`
	TeamID        uint      `json:"team_id"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorName     string    `json:"actor_name"`
	Comment       string    `json:"comment,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NotifyTransition fires the webhook in the background.
func (s *NotifyService) NotifyTransition(req *model.PurchaseRequest, action, fromStatus, actorName, comment string) {
	if s.webhookURL == "" {
		return
	}

	event := transitionEvent{
		Event:         "purchase_request.transition",
		RequestID:     req.ID,
		RequestNumber: req.RequestNumber,
		Subject:       req.Subject,
		TeamID:        req.TeamID,
		Action:        action,
		FromStatus:    fromStatus,
		ToStatus:      req.Status.Code,
		ActorName:     actorName,
		Comment:       comment,
		OccurredAt:    time.Now(),
	}

	go s.deliver(event)
}

func (s *NotifyService) deliver(event transitionEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Warnf("Failed to encode notification for request %d: %v", event.RequestID, err)
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(event.Action, "error").Inc()
		logger.Warnf("Failed to deliver notification for request %d: %v", event.RequestID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.NotificationsSent.WithLabelValues(event.Action, "error").Inc()
		logger.Warnf("Notification webhook returned %d for request %d", resp.StatusCode, event.RequestID)
		return
	}

	metrics.NotificationsSent.WithLabelValues(event.Action, "ok").Inc()
}
