package app

import (
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/database"
)

type Repositories struct {
	User       *repository.UserRepository
	Team       *repository.TeamRepository
	Lookup     *repository.LookupRepository
	Template   *repository.TemplateRepository
	Request    *repository.RequestRepository
	Attachment *repository.AttachmentRepository
	Approval   *repository.ApprovalRepository
}

func InitializeRepositories() *Repositories {
	db := database.DB
	return &Repositories{
		User:       repository.NewUserRepository(db),
		Team:       repository.NewTeamRepository(db),
		Lookup:     repository.NewLookupRepository(db),
		Template:   repository.NewTemplateRepository(db),
		Request:    repository.NewRequestRepository(db),
		Attachment: repository.NewAttachmentRepository(db),
		Approval:   repository.NewApprovalRepository(db),
	}
}
