// Package services содержит бизнес-логику для управления организациями.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

// InstitutionRepository определяет методы для работы с организациями в хранилище.
type InstitutionRepository interface {
	CreateInstitution(ctx context.Context, inst models.Institution) (string, error)
	GetInstitution(ctx context.Context, uid string) (*models.Institution, error)
	ListInstitutions(ctx context.Context, limit, offset int) ([]*models.Institution, error)
}

// InstitutionService реализует операции над организациями.
type InstitutionService struct {
	repo InstitutionRepository
	log  *slog.Logger
}

// NewInstitutionService создает новый экземпляр InstitutionService.
func NewInstitutionService(repo InstitutionRepository, log *slog.Logger) *InstitutionService {
	return &InstitutionService{
		repo: repo,
		log:  log,
	}
}

// Create создает новую организацию и возвращает её UID.
func (s *InstitutionService) Create(ctx context.Context, req models.DummyInstitution) (string, error) {
	uid, err := s.repo.CreateInstitution(ctx, models.Institution{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created new institution", slog.String("uid", uid), slog.String("name", req.Name))
	return uid, nil
}

// Get возвращает организацию по UID.
func (s *InstitutionService) Get(ctx context.Context, uid string) (*models.Institution, error) {
	inst, err := s.repo.GetInstitution(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "institution not found", err)
		}
		return nil, err
	}
	return inst, nil
}

// List возвращает список организаций с пагинацией.
func (s *InstitutionService) List(ctx context.Context, limit, offset int) ([]*models.Institution, error) {
	return s.repo.ListInstitutions(ctx, limit, offset)
}
