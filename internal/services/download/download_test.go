package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

type ResourceRepoMock struct{ mock.Mock }

func (m *ResourceRepoMock) ReadResource(ctx context.Context, id int) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *ResourceRepoMock) IncrementDownloadCount(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type AccessMock struct{ mock.Mock }

func (m *AccessMock) HasActiveAccess(ctx context.Context, actor models.Actor) (bool, error) {
	args := m.Called(ctx, actor)
	return args.Bool(0), args.Error(1)
}

type SignerMock struct{ mock.Mock }

func (m *SignerMock) SignedDownloadURL(ctx context.Context, key, filename string) (string, error) {
	args := m.Called(ctx, key, filename)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDownloadService_Issue(t *testing.T) {
	actor := models.Actor{UID: "550e8400-e29b-41d4-a716-446655440000",
		Type: models.ActorIndividual}

	freeRes := &models.Resource{ID: 1, Title: "SICP", Tier: models.TierFree,
		StorageKey: "resources/abc.pdf"}
	premiumRes := &models.Resource{ID: 2, Title: "TAOCP", Tier: models.TierPremium,
		StorageKey: "resources/def.epub"}

	tests := []struct {
		name       string
		resourceID int
		setupMocks func(r *ResourceRepoMock, a *AccessMock, s *SignerMock)
		wantURL    string
		wantKind   apperr.Kind
	}{
		{
			name:       "free resource skips subscription check",
			resourceID: 1,
			setupMocks: func(r *ResourceRepoMock, _ *AccessMock, s *SignerMock) {
				r.On("ReadResource", mock.Anything, 1).Return(freeRes, nil).Once()
				s.On("SignedDownloadURL", mock.Anything, "resources/abc.pdf", "SICP.pdf").
					Return("https://signed.example/abc", nil).Once()
				r.On("IncrementDownloadCount", mock.Anything, 1).Return(nil).Once()
			},
			wantURL: "https://signed.example/abc",
		},
		{
			name:       "premium resource with active subscription",
			resourceID: 2,
			setupMocks: func(r *ResourceRepoMock, a *AccessMock, s *SignerMock) {
				r.On("ReadResource", mock.Anything, 2).Return(premiumRes, nil).Once()
				a.On("HasActiveAccess", mock.Anything, actor).Return(true, nil).Once()
				s.On("SignedDownloadURL", mock.Anything, "resources/def.epub", "TAOCP.epub").
					Return("https://signed.example/def", nil).Once()
				r.On("IncrementDownloadCount", mock.Anything, 2).Return(nil).Once()
			},
			wantURL: "https://signed.example/def",
		},
		{
			name:       "premium resource without subscription denied before signing",
			resourceID: 2,
			setupMocks: func(r *ResourceRepoMock, a *AccessMock, _ *SignerMock) {
				r.On("ReadResource", mock.Anything, 2).Return(premiumRes, nil).Once()
				a.On("HasActiveAccess", mock.Anything, actor).Return(false, nil).Once()
			},
			wantKind: apperr.KindNoActiveSubscription,
		},
		{
			name:       "missing resource",
			resourceID: 99,
			setupMocks: func(r *ResourceRepoMock, _ *AccessMock, _ *SignerMock) {
				r.On("ReadResource", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name:       "provider failure returns generic message",
			resourceID: 1,
			setupMocks: func(r *ResourceRepoMock, _ *AccessMock, s *SignerMock) {
				r.On("ReadResource", mock.Anything, 1).Return(freeRes, nil).Once()
				s.On("SignedDownloadURL", mock.Anything, "resources/abc.pdf", "SICP.pdf").
					Return("", errors.New("s3: access denied for key")).Once()
			},
			wantKind: apperr.KindProviderFailure,
		},
		{
			name:       "counter failure does not fail the request",
			resourceID: 1,
			setupMocks: func(r *ResourceRepoMock, _ *AccessMock, s *SignerMock) {
				r.On("ReadResource", mock.Anything, 1).Return(freeRes, nil).Once()
				s.On("SignedDownloadURL", mock.Anything, "resources/abc.pdf", "SICP.pdf").
					Return("https://signed.example/abc", nil).Once()
				r.On("IncrementDownloadCount", mock.Anything, 1).
					Return(errors.New("db down")).Once()
			},
			wantURL: "https://signed.example/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ResourceRepoMock)
			access := new(AccessMock)
			signer := new(SignerMock)
			svc := NewDownloadService(repo, access, signer, newNoopLogger())

			tt.setupMocks(repo, access, signer)

			url, err := svc.Issue(context.Background(), actor, tt.resourceID)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Empty(t, url)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, url)
			}

			repo.AssertExpectations(t)
			access.AssertExpectations(t)
			signer.AssertExpectations(t)
		})
	}
}

func TestDownloadService_ProviderErrorDetailsHidden(t *testing.T) {
	repo := new(ResourceRepoMock)
	access := new(AccessMock)
	signer := new(SignerMock)
	svc := NewDownloadService(repo, access, signer, newNoopLogger())

	res := &models.Resource{ID: 1, Title: "SICP", Tier: models.TierFree,
		StorageKey: "resources/abc.pdf"}
	repo.On("ReadResource", mock.Anything, 1).Return(res, nil).Once()
	signer.On("SignedDownloadURL", mock.Anything, "resources/abc.pdf", "SICP.pdf").
		Return("", errors.New("bucket policy violation: secret-bucket")).Once()

	_, err := svc.Issue(context.Background(), models.Actor{UID: "u", Type: models.ActorIndividual}, 1)
	require.Error(t, err)
	assert.Equal(t, "download failed", apperr.Message(err))
	assert.NotContains(t, apperr.Message(err), "secret-bucket")
}
