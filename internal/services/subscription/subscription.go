// Package services содержит бизнес-логику для управления подписками.
// Создание и изменение подписок доступно только администратору.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// UpdateSubscription обновляет данные подписки по ID.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (int, error)
	// ListSubscriptionsByOwner возвращает подписки одного владельца.
	ListSubscriptionsByOwner(ctx context.Context, ownerUID, ownerType string) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает все подписки с пагинацией.
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// Create создает новую подписку и возвращает её ID.
// Дата окончания вычисляется из даты начала и длительности в днях.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (int, error) {
	sub, err := subscriptionFromRequest(req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id),
		slog.String("owner_uid", sub.OwnerUID), slog.String("owner_type", sub.OwnerType))
	return id, nil
}

// Update обновляет подписку по ID.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id int) (int, error) {
	sub, err := subscriptionFromRequest(req)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.UpdateSubscription(ctx, sub, id)
	if err != nil {
		return 0, err
	}
	if res == 0 {
		return 0, apperr.New(apperr.KindNotFound, "subscription not found")
	}
	s.log.Info("updated subscription", slog.Int("id", id))
	return res, nil
}

// Remove удаляет подписку по ID.
func (s *SubscriptionService) Remove(ctx context.Context, id int) (int, error) {
	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperr.New(apperr.KindNotFound, "subscription not found")
	}
	return count, nil
}

// List возвращает подписки в зависимости от роли актора: администратор
// видит все, остальные только подписки своего владельца биллинга.
// Студент видит подписки своей организации.
func (s *SubscriptionService) List(ctx context.Context, actor models.Actor, limit, offset int) ([]*models.Subscription, error) {
	if actor.Role == models.RoleAdmin {
		return s.repo.ListAllSubscriptions(ctx, limit, offset)
	}

	ownerUID, ownerType, ok := actor.BillingOwner()
	if !ok {
		return []*models.Subscription{}, nil
	}
	return s.repo.ListSubscriptionsByOwner(ctx, ownerUID, ownerType)
}

func subscriptionFromRequest(req models.DummySubscription) (models.Subscription, error) {
	startDate, err := time.Parse("02-01-2006", req.StartDate)
	if err != nil {
		return models.Subscription{}, apperr.Wrap(apperr.KindValidation, "invalid start date", err)
	}
	endDate := startDate.AddDate(0, 0, req.DurationDays)
	today := time.Now().Truncate(24 * time.Hour)
	if endDate.Before(today) {
		return models.Subscription{}, apperr.New(apperr.KindValidation,
			"subscription end date must not be earlier than today")
	}

	return models.Subscription{
		OwnerUID:     req.OwnerUID,
		OwnerType:    req.OwnerType,
		PlanName:     req.PlanName,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		StartDate:    startDate,
		EndDate:      endDate,
	}, nil
}
