// Package services реализует выдачу подписанных ссылок на скачивание.
//
// Поток запроса: ресурс читается из каталога, для премиум-уровня
// проверяется активная подписка владельца биллинга, затем у провайдера
// хранилища запрашивается ссылка с ограниченным сроком жизни.
// Файл никогда не проходит через сервер.
package services

import (
	"context"
	"errors"
	"log/slog"
	"path"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

var downloadsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "elibrary_downloads_issued_total",
	Help: "Number of signed download URLs issued, by resource tier.",
}, []string{"tier"})

// ResourceRepository определяет методы каталога, нужные при скачивании.
type ResourceRepository interface {
	// ReadResource возвращает ресурс по ID.
	ReadResource(ctx context.Context, id int) (*models.Resource, error)
	// IncrementDownloadCount увеличивает счетчик выдач.
	IncrementDownloadCount(ctx context.Context, id int) error
}

// AccessChecker определяет проверку активной подписки актора.
type AccessChecker interface {
	HasActiveAccess(ctx context.Context, actor models.Actor) (bool, error)
}

// Signer описывает выдачу подписанной ссылки провайдером хранилища.
type Signer interface {
	SignedDownloadURL(ctx context.Context, key, filename string) (string, error)
}

// DownloadService оркестрирует авторизацию и выдачу ссылки.
type DownloadService struct {
	resources ResourceRepository
	access    AccessChecker
	signer    Signer
	log       *slog.Logger
}

// NewDownloadService создает новый экземпляр DownloadService.
func NewDownloadService(resources ResourceRepository, access AccessChecker,
	signer Signer, log *slog.Logger) *DownloadService {
	return &DownloadService{
		resources: resources,
		access:    access,
		signer:    signer,
		log:       log,
	}
}

// Issue выдает подписанную ссылку на скачивание ресурса.
//
// Бесплатные ресурсы доступны без проверки подписки. Для премиум-уровня
// отсутствие активной подписки завершает запрос ошибкой вида
// no_active_subscription, счетчик при этом не меняется. Отказ провайдера
// возвращается клиенту обобщенным сообщением, детали остаются в логах.
func (s *DownloadService) Issue(ctx context.Context, actor models.Actor, resourceID int) (string, error) {
	res, err := s.resources.ReadResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.Wrap(apperr.KindNotFound, "resource not found", err)
		}
		return "", err
	}

	if res.Tier == models.TierPremium {
		ok, err := s.access.HasActiveAccess(ctx, actor)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", apperr.New(apperr.KindNoActiveSubscription, "no active subscription")
		}
	}

	url, err := s.signer.SignedDownloadURL(ctx, res.StorageKey, downloadFilename(res))
	if err != nil {
		s.log.Error("storage provider failed to sign url",
			slog.Int("resource_id", resourceID), sl.Err(err))
		return "", apperr.Wrap(apperr.KindProviderFailure, "download failed", err)
	}

	// Счетчик инкрементируется best-effort: промах на редкой гонке допустим.
	if err := s.resources.IncrementDownloadCount(ctx, resourceID); err != nil {
		s.log.Warn("failed to increment download count",
			slog.Int("resource_id", resourceID), sl.Err(err))
	}
	downloadsIssued.WithLabelValues(res.Tier).Inc()

	return url, nil
}

func downloadFilename(res *models.Resource) string {
	return res.Title + path.Ext(res.StorageKey)
}
