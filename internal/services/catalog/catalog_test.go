package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) CreateResource(ctx context.Context, res models.Resource) (int, error) {
	args := m.Called(ctx, res)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ReadResource(ctx context.Context, id int) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *CatalogRepoMock) UpdateResource(ctx context.Context, res models.Resource, id int) (int, error) {
	args := m.Called(ctx, res, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) RemoveResource(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ListResources(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resource), args.Error(1)
}

func (m *CatalogRepoMock) CreateCategory(ctx context.Context, category models.Category) (int, error) {
	args := m.Called(ctx, category)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) RemoveCategory(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

type FileStoreMock struct{ mock.Mock }

func (m *FileStoreMock) Save(ctx context.Context, key string, body io.Reader) error {
	return m.Called(ctx, key, body).Error(0)
}

func (m *FileStoreMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *CatalogRepoMock, store *FileStoreMock, cache *CacheMock) *CatalogService {
	return NewCatalogService(repo, store, cache, newNoopLogger(), 50<<20)
}

func TestCatalogService_ValidateFile(t *testing.T) {
	svc := newTestService(new(CatalogRepoMock), new(FileStoreMock), new(CacheMock))

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{name: "pdf accepted", filename: "book.pdf", size: 1024},
		{name: "uppercase extension accepted", filename: "book.PDF", size: 1024},
		{name: "epub accepted", filename: "book.epub", size: 1024},
		{name: "djvu accepted", filename: "scan.djvu", size: 1024},
		{name: "executable rejected", filename: "malware.exe", size: 1024, wantErr: true},
		{name: "no extension rejected", filename: "README", size: 1024, wantErr: true},
		{name: "zero size rejected", filename: "book.pdf", size: 0, wantErr: true},
		{name: "oversized file rejected", filename: "book.pdf", size: 51 << 20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateFile(tt.filename, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogService_Upload(t *testing.T) {
	meta := models.DummyResource{
		Title: "SICP", Authors: "Abelson, Sussman", CategoryID: 1,
		Language: "en", Year: 1996, Tier: models.TierFree,
	}

	t.Run("success stores object under generated key", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		svc := newTestService(repo, store, new(CacheMock))

		store.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "resources/") && strings.HasSuffix(key, ".pdf")
		}), mock.Anything).Return(nil).Once()
		repo.On("CreateResource", mock.Anything, mock.MatchedBy(func(res models.Resource) bool {
			return res.Title == "SICP" && strings.HasPrefix(res.StorageKey, "resources/")
		})).Return(42, nil).Once()

		id, err := svc.Upload(context.Background(), meta, "sicp.pdf", 1024, strings.NewReader("data"))
		require.NoError(t, err)
		assert.Equal(t, 42, id)

		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("invalid file rejected before touching the store", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		svc := newTestService(repo, store, new(CacheMock))

		_, err := svc.Upload(context.Background(), meta, "sicp.exe", 1024, strings.NewReader("data"))
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateResource", mock.Anything, mock.Anything)
	})

	t.Run("failed insert cleans up the uploaded object", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		svc := newTestService(repo, store, new(CacheMock))

		var savedKey string
		store.On("Save", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { savedKey = args.String(1) }).
			Return(nil).Once()
		repo.On("CreateResource", mock.Anything, mock.Anything).
			Return(0, errors.New("db down")).Once()
		store.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
			return key == savedKey
		})).Return(nil).Once()

		_, err := svc.Upload(context.Background(), meta, "sicp.pdf", 1024, strings.NewReader("data"))
		require.Error(t, err)

		store.AssertExpectations(t)
	})

	t.Run("store failure wrapped as provider error", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		svc := newTestService(repo, store, new(CacheMock))

		store.On("Save", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("connection reset")).Once()

		_, err := svc.Upload(context.Background(), meta, "sicp.pdf", 1024, strings.NewReader("data"))
		require.Error(t, err)
		assert.Equal(t, apperr.KindProviderFailure, apperr.KindOf(err))
		repo.AssertNotCalled(t, "CreateResource", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_Read(t *testing.T) {
	res := &models.Resource{ID: 7, Title: "SICP", Tier: models.TierFree,
		StorageKey: "resources/abc.pdf"}

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, new(FileStoreMock), cache)

		cache.On("Get", "resource:7", mock.Anything).
			Return(true, nil).
			Run(func(args mock.Arguments) {
				ptr := args.Get(1).(**models.Resource)
				*ptr = res
			}).Once()

		got, err := svc.Read(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, res, got)

		repo.AssertNotCalled(t, "ReadResource", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss reads from repository and populates cache", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, new(FileStoreMock), cache)

		cache.On("Get", "resource:7", mock.Anything).Return(false, nil).Once()
		repo.On("ReadResource", mock.Anything, 7).Return(res, nil).Once()
		cache.On("Set", "resource:7", res, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, res, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing resource classified as not found", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, new(FileStoreMock), cache)

		cache.On("Get", "resource:99", mock.Anything).Return(false, nil).Once()
		repo.On("ReadResource", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Read(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("cache write failure does not fail the read", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, new(FileStoreMock), cache)

		cache.On("Get", "resource:7", mock.Anything).Return(false, nil).Once()
		repo.On("ReadResource", mock.Anything, 7).Return(res, nil).Once()
		cache.On("Set", "resource:7", res, time.Hour).Return(errors.New("redis down")).Once()

		got, err := svc.Read(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, res, got)
	})
}

func TestCatalogService_Update(t *testing.T) {
	current := &models.Resource{ID: 7, Title: "SICP", Tier: models.TierFree,
		StorageKey: "resources/old.pdf"}
	meta := models.DummyResource{
		Title: "SICP 2nd ed", Authors: "Abelson, Sussman", CategoryID: 1,
		Language: "en", Year: 1996, Tier: models.TierPremium,
	}

	t.Run("metadata only update keeps the old object", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		cache := new(CacheMock)
		svc := newTestService(repo, store, cache)

		repo.On("ReadResource", mock.Anything, 7).Return(current, nil).Once()
		repo.On("UpdateResource", mock.Anything, mock.MatchedBy(func(res models.Resource) bool {
			return res.StorageKey == "resources/old.pdf" && res.Title == "SICP 2nd ed"
		}), 7).Return(1, nil).Once()
		cache.On("Invalidate", "resource:7").Return(nil).Once()

		err := svc.Update(context.Background(), 7, meta, "", 0, nil)
		require.NoError(t, err)

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("file replacement deletes the old object after success", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		cache := new(CacheMock)
		svc := newTestService(repo, store, cache)

		repo.On("ReadResource", mock.Anything, 7).Return(current, nil).Once()
		store.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "resources/") && key != "resources/old.pdf"
		}), mock.Anything).Return(nil).Once()
		repo.On("UpdateResource", mock.Anything, mock.Anything, 7).Return(1, nil).Once()
		store.On("Delete", mock.Anything, "resources/old.pdf").Return(nil).Once()
		cache.On("Invalidate", "resource:7").Return(nil).Once()

		err := svc.Update(context.Background(), 7, meta, "sicp2.pdf", 2048, strings.NewReader("data"))
		require.NoError(t, err)

		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("failed update cleans up the replacement object", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		cache := new(CacheMock)
		svc := newTestService(repo, store, cache)

		var newKey string
		repo.On("ReadResource", mock.Anything, 7).Return(current, nil).Once()
		store.On("Save", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { newKey = args.String(1) }).
			Return(nil).Once()
		repo.On("UpdateResource", mock.Anything, mock.Anything, 7).
			Return(0, errors.New("db down")).Once()
		store.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
			return key == newKey
		})).Return(nil).Once()

		err := svc.Update(context.Background(), 7, meta, "sicp2.pdf", 2048, strings.NewReader("data"))
		require.Error(t, err)

		store.AssertExpectations(t)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("missing resource classified as not found", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		svc := newTestService(repo, new(FileStoreMock), new(CacheMock))

		repo.On("ReadResource", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()

		err := svc.Update(context.Background(), 99, meta, "", 0, nil)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestCatalogService_Remove(t *testing.T) {
	current := &models.Resource{ID: 7, Title: "SICP", Tier: models.TierFree,
		StorageKey: "resources/old.pdf"}

	t.Run("removes record, object and cache entry", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		cache := new(CacheMock)
		svc := newTestService(repo, store, cache)

		repo.On("ReadResource", mock.Anything, 7).Return(current, nil).Once()
		store.On("Delete", mock.Anything, "resources/old.pdf").Return(nil).Once()
		repo.On("RemoveResource", mock.Anything, 7).Return(1, nil).Once()
		cache.On("Invalidate", "resource:7").Return(nil).Once()

		require.NoError(t, svc.Remove(context.Background(), 7))

		repo.AssertExpectations(t)
		store.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("object delete failure does not block record removal", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		store := new(FileStoreMock)
		cache := new(CacheMock)
		svc := newTestService(repo, store, cache)

		repo.On("ReadResource", mock.Anything, 7).Return(current, nil).Once()
		store.On("Delete", mock.Anything, "resources/old.pdf").
			Return(errors.New("s3 unavailable")).Once()
		repo.On("RemoveResource", mock.Anything, 7).Return(1, nil).Once()
		cache.On("Invalidate", "resource:7").Return(nil).Once()

		require.NoError(t, svc.Remove(context.Background(), 7))
	})

	t.Run("missing resource classified as not found", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		svc := newTestService(repo, new(FileStoreMock), new(CacheMock))

		repo.On("ReadResource", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()

		err := svc.Remove(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
