// Package services реализует планировщик уведомлений: периодически ищет
// подписки, истекающие завтра, и публикует их в очередь уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/rabbitmq"
)

// SubscriptionRepository определяет поиск истекающих подписок в хранилище.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.SubscriptionInfo, error)
}

// SchedulerService публикует информацию об истекающих подписках в брокер.
type SchedulerService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptions запускает периодический обход раз в 12 часов
// и завершается при отмене контекста.
func (s *SchedulerService) FindExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.publishExpiring(ctx, channel)
		}
	}
}

func (s *SchedulerService) publishExpiring(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find expiring subscriptions")
	infos, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	for _, info := range infos {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange,
			rabbitmq.ExpiringRoutingKey, info)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
	s.log.Info("published expiring subscriptions", slog.Int("count", len(infos)))
}
