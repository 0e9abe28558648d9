package app

import (
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
)

type Services struct {
	Auth     *service.AuthService
	Template *service.TemplateService
	Request  *service.RequestService
	Notify   *service.NotifyService
}

func InitializeServices(repos *Repositories, cfg *config.Config) *Services {
	notify := service.NewNotifyService(&cfg.Notify)
	templates := service.NewTemplateService(repos.Template, repos.Team, repos.Lookup)

	return &Services{
		Auth:     service.NewAuthService(repos.User, cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		Template: templates,
		Request: service.NewRequestService(
			repos.Request,
			templates,
			repos.Team,
			repos.Attachment,
			repos.Approval,
			notify,
		),
		Notify: notify,
	}
}
