// Package services содержит бизнес-логику каталога: ресурсы и категории,
// загрузку файлов в объектное хранилище и кеширование чтений.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

// Форматы документов, разрешенные к загрузке.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".epub": {},
	".djvu": {},
	".doc":  {},
	".docx": {},
}

// CatalogRepository определяет методы для работы с каталогом в хранилище.
type CatalogRepository interface {
	CreateResource(ctx context.Context, res models.Resource) (int, error)
	ReadResource(ctx context.Context, id int) (*models.Resource, error)
	UpdateResource(ctx context.Context, res models.Resource, id int) (int, error)
	RemoveResource(ctx context.Context, id int) (int, error)
	ListResources(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error)
	CreateCategory(ctx context.Context, category models.Category) (int, error)
	RemoveCategory(ctx context.Context, id int) (int, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// FileStore описывает операции объектного хранилища для файлов каталога.
type FileStore interface {
	Save(ctx context.Context, key string, body io.Reader) error
	Delete(ctx context.Context, key string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// CatalogService реализует операции каталога, включая кеширование чтений.
type CatalogService struct {
	repo        CatalogRepository
	store       FileStore
	cache       Cache
	log         *slog.Logger
	maxFileSize int64
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, store FileStore, cache Cache,
	log *slog.Logger, maxFileSize int64) *CatalogService {
	return &CatalogService{
		repo:        repo,
		store:       store,
		cache:       cache,
		log:         log,
		maxFileSize: maxFileSize,
	}
}

// ValidateFile проверяет расширение и размер файла до каких-либо побочных
// эффектов: невалидная загрузка отклоняется, не касаясь хранилища.
func (s *CatalogService) ValidateFile(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("file format %q is not allowed", ext))
	}
	if size <= 0 || size > s.maxFileSize {
		return apperr.New(apperr.KindValidation, "file size exceeds the allowed limit")
	}
	return nil
}

// Upload загружает файл в хранилище и создает запись каталога.
// Если вставка в базу не удалась, загруженный объект подчищается,
// чтобы не оставлять файлов-сирот.
func (s *CatalogService) Upload(ctx context.Context, meta models.DummyResource,
	filename string, size int64, file io.Reader) (int, error) {
	if err := s.ValidateFile(filename, size); err != nil {
		return 0, err
	}

	key := storageKey(filename)
	if err := s.store.Save(ctx, key, file); err != nil {
		s.log.Error("failed to upload file to object store", sl.Err(err))
		return 0, apperr.Wrap(apperr.KindProviderFailure, "upload failed", err)
	}

	res := models.Resource{
		Title:      meta.Title,
		Authors:    meta.Authors,
		Abstract:   meta.Abstract,
		CategoryID: meta.CategoryID,
		Language:   meta.Language,
		Year:       meta.Year,
		Tier:       meta.Tier,
		StorageKey: key,
	}
	id, err := s.repo.CreateResource(ctx, res)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to cleanup uploaded file", slog.String("key", key), sl.Err(delErr))
		}
		return 0, err
	}

	s.log.Info("created new resource", slog.Int("id", id), slog.String("key", key))
	return id, nil
}

// Read возвращает ресурс по ID, используя кеш или репозиторий.
func (s *CatalogService) Read(ctx context.Context, id int) (*models.Resource, error) {
	var result *models.Resource
	cacheKey := fmt.Sprintf("resource:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadResource(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "resource not found", err)
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache resource", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// List возвращает страницу каталога.
func (s *CatalogService) List(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	return s.repo.ListResources(ctx, filter)
}

// Update обновляет метаданные ресурса и, если передан файл, заменяет
// объект в хранилище. Старый объект удаляется после успешного обновления.
func (s *CatalogService) Update(ctx context.Context, id int, meta models.DummyResource,
	filename string, size int64, file io.Reader) error {
	current, err := s.repo.ReadResource(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "resource not found", err)
		}
		return err
	}

	key := current.StorageKey
	replaced := false
	if file != nil {
		if err := s.ValidateFile(filename, size); err != nil {
			return err
		}
		key = storageKey(filename)
		if err := s.store.Save(ctx, key, file); err != nil {
			s.log.Error("failed to upload replacement file", sl.Err(err))
			return apperr.Wrap(apperr.KindProviderFailure, "upload failed", err)
		}
		replaced = true
	}

	res := models.Resource{
		Title:      meta.Title,
		Authors:    meta.Authors,
		Abstract:   meta.Abstract,
		CategoryID: meta.CategoryID,
		Language:   meta.Language,
		Year:       meta.Year,
		Tier:       meta.Tier,
		StorageKey: key,
	}
	if _, err := s.repo.UpdateResource(ctx, res, id); err != nil {
		if replaced {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.log.Error("failed to cleanup replacement file", slog.String("key", key), sl.Err(delErr))
			}
		}
		return err
	}

	if replaced {
		if delErr := s.store.Delete(ctx, current.StorageKey); delErr != nil {
			s.log.Error("failed to delete replaced file",
				slog.String("key", current.StorageKey), sl.Err(delErr))
		}
	}

	cacheKey := fmt.Sprintf("resource:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return nil
}

// Remove удаляет ресурс вместе с его объектом в хранилище.
func (s *CatalogService) Remove(ctx context.Context, id int) error {
	current, err := s.repo.ReadResource(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "resource not found", err)
		}
		return err
	}

	if err := s.store.Delete(ctx, current.StorageKey); err != nil {
		s.log.Error("failed to delete file from object store",
			slog.String("key", current.StorageKey), sl.Err(err))
	}

	if _, err := s.repo.RemoveResource(ctx, id); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("resource:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return nil
}

// CreateCategory создает новую категорию каталога.
func (s *CatalogService) CreateCategory(ctx context.Context, req models.DummyCategory) (int, error) {
	return s.repo.CreateCategory(ctx, models.Category{Name: req.Name})
}

// RemoveCategory удаляет категорию по ID.
func (s *CatalogService) RemoveCategory(ctx context.Context, id int) (int, error) {
	return s.repo.RemoveCategory(ctx, id)
}

// ListCategories возвращает все категории.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func storageKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return "resources/" + uuid.NewString() + ext
}
