// Package services реализует проверку статуса подписки: определяет,
// есть ли у актора право на платный контент в текущий момент.
//
// Проверка только читает данные и не имеет побочных эффектов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/axmetovrr/elibrary/internal/models"
)

// SubscriptionRepository определяет проверку активной подписки в хранилище.
type SubscriptionRepository interface {
	// HasActiveSubscription сообщает, действует ли хоть одна подписка
	// владельца в момент now.
	HasActiveSubscription(ctx context.Context, ownerUID, ownerType string, now time.Time) (bool, error)
}

// AccessService вычисляет право доступа к премиум-контенту.
type AccessService struct {
	subs SubscriptionRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewAccessService создает новый экземпляр AccessService.
func NewAccessService(subs SubscriptionRepository, log *slog.Logger) *AccessService {
	return &AccessService{
		subs: subs,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// HasActiveAccess определяет владельца биллинга актора и проверяет,
// действует ли его подписка. Студент проверяется по подписке организации,
// собственных подписок у него нет. Неизвестный владелец трактуется как
// отсутствие подписки, а не как ошибка.
func (s *AccessService) HasActiveAccess(ctx context.Context, actor models.Actor) (bool, error) {
	ownerUID, ownerType, ok := actor.BillingOwner()
	if !ok {
		s.log.Warn("billing owner cannot be resolved",
			slog.String("actor_uid", actor.UID),
			slog.String("actor_type", actor.Type))
		return false, nil
	}
	return s.subs.HasActiveSubscription(ctx, ownerUID, ownerType, s.now())
}
