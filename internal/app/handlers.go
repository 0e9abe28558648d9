package app

import (
	"github.com/AliMohammadiiii/PRS-sub001/internal/api/handler"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Request    *handler.RequestHandler
	Action     *handler.ActionHandler
	Attachment *handler.AttachmentHandler
	Template   *handler.TemplateHandler
	Team       *handler.TeamHandler
	Lookup     *handler.LookupHandler
}

func InitializeHandlers(repos *Repositories, services *Services, cfg *config.Config) *Handlers {
	attachment := handler.NewAttachmentHandler(repos.Attachment, repos.Request, cfg.Uploads)

	return &Handlers{
		Auth:       handler.NewAuthHandler(services.Auth, repos.User),
		Request:    handler.NewRequestHandler(services.Request, repos.User),
		Action:     handler.NewActionHandler(services.Request, repos.User, attachment),
		Attachment: attachment,
		Template:   handler.NewTemplateHandler(services.Template),
		Team:       handler.NewTeamHandler(repos.Team),
		Lookup:     handler.NewLookupHandler(repos.Lookup),
	}
}
