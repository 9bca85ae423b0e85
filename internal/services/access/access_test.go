package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/axmetovrr/elibrary/internal/models"
)

type SubsRepoMock struct{ mock.Mock }

func (m *SubsRepoMock) HasActiveSubscription(ctx context.Context, ownerUID, ownerType string, now time.Time) (bool, error) {
	args := m.Called(ctx, ownerUID, ownerType, now)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAccessService_HasActiveAccess(t *testing.T) {
	userUID := "550e8400-e29b-41d4-a716-446655440000"
	instUID := "660e8400-e29b-41d4-a716-446655440111"

	tests := []struct {
		name       string
		actor      models.Actor
		setupMocks func(r *SubsRepoMock)
		want       bool
		wantErr    bool
	}{
		{
			name:  "individual checked against own subscription",
			actor: models.Actor{UID: userUID, Type: models.ActorIndividual},
			setupMocks: func(r *SubsRepoMock) {
				r.On("HasActiveSubscription", mock.Anything, userUID, models.OwnerUser, mock.Anything).
					Return(true, nil).Once()
			},
			want: true,
		},
		{
			name: "student checked against institution subscription",
			actor: models.Actor{UID: userUID, Type: models.ActorStudent,
				InstitutionUID: instUID},
			setupMocks: func(r *SubsRepoMock) {
				r.On("HasActiveSubscription", mock.Anything, instUID, models.OwnerInstitution, mock.Anything).
					Return(true, nil).Once()
			},
			want: true,
		},
		{
			name: "institution account checked against own institution",
			actor: models.Actor{UID: userUID, Type: models.ActorInstitution,
				InstitutionUID: instUID},
			setupMocks: func(r *SubsRepoMock) {
				r.On("HasActiveSubscription", mock.Anything, instUID, models.OwnerInstitution, mock.Anything).
					Return(false, nil).Once()
			},
			want: false,
		},
		{
			name:       "student without institution denied without repo call",
			actor:      models.Actor{UID: userUID, Type: models.ActorStudent},
			setupMocks: func(_ *SubsRepoMock) {},
			want:       false,
		},
		{
			name:       "empty actor denied without repo call",
			actor:      models.Actor{},
			setupMocks: func(_ *SubsRepoMock) {},
			want:       false,
		},
		{
			name:  "repo error propagates",
			actor: models.Actor{UID: userUID, Type: models.ActorIndividual},
			setupMocks: func(r *SubsRepoMock) {
				r.On("HasActiveSubscription", mock.Anything, userUID, models.OwnerUser, mock.Anything).
					Return(false, errors.New("db down")).Once()
			},
			want:    false,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubsRepoMock)
			svc := NewAccessService(repo, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.HasActiveAccess(context.Background(), tt.actor)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			repo.AssertExpectations(t)
		})
	}
}

func TestAccessService_UsesInjectedClock(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := new(SubsRepoMock)
	svc := NewAccessService(repo, newNoopLogger())
	svc.now = func() time.Time { return fixed }

	repo.On("HasActiveSubscription", mock.Anything, "uid", models.OwnerUser, fixed).
		Return(true, nil).Once()

	got, err := svc.HasActiveAccess(context.Background(),
		models.Actor{UID: "uid", Type: models.ActorIndividual})
	assert.NoError(t, err)
	assert.True(t, got)
	repo.AssertExpectations(t)
}
