package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/axmetovrr/elibrary/internal/models"
)

// CreateResource вставляет новую запись каталога и возвращает её ID.
func (s *Storage) CreateResource(ctx context.Context, res models.Resource) (int, error) {
	const op = "storage.CreateResource"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO resources (title, authors, abstract, category_id, language,
			      year, tier, storage_key)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		res.Title, res.Authors, res.Abstract, res.CategoryID, res.Language,
		res.Year, res.Tier, res.StorageKey).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadResource возвращает данные ресурса по его ID.
func (s *Storage) ReadResource(ctx context.Context, id int) (*models.Resource, error) {
	const op = "storage.ReadResource"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, authors, abstract, category_id, language, year, tier,
			      storage_key, download_count, created_at
			  FROM resources WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Resource
	if err := row.Scan(&result.ID, &result.Title, &result.Authors, &result.Abstract,
		&result.CategoryID, &result.Language, &result.Year, &result.Tier,
		&result.StorageKey, &result.DownloadCount, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateResource обновляет метаданные и ключ файла ресурса,
// возвращает количество изменённых строк.
func (s *Storage) UpdateResource(ctx context.Context, res models.Resource, id int) (int, error) {
	const op = "storage.UpdateResource"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE resources
			  SET title = $1, authors = $2, abstract = $3, category_id = $4,
			      language = $5, year = $6, tier = $7, storage_key = $8
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		res.Title, res.Authors, res.Abstract, res.CategoryID,
		res.Language, res.Year, res.Tier, res.StorageKey, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveResource удаляет ресурс по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveResource(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveResource"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM resources WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListResources возвращает страницу каталога, опционально по категории.
func (s *Storage) ListResources(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	const op = "storage.ListResources"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, authors, abstract, category_id, language, year, tier,
			      storage_key, download_count, created_at
			  FROM resources
			  WHERE ($1 = 0 OR category_id = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, filter.CategoryID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Resource
	for rows.Next() {
		var item models.Resource
		if err := rows.Scan(&item.ID, &item.Title, &item.Authors, &item.Abstract,
			&item.CategoryID, &item.Language, &item.Year, &item.Tier,
			&item.StorageKey, &item.DownloadCount, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IncrementDownloadCount увеличивает счетчик выдач на единицу.
// Одиночный UPDATE, атомарность обеспечивает база.
func (s *Storage) IncrementDownloadCount(ctx context.Context, id int) error {
	const op = "storage.IncrementDownloadCount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE resources
			  SET download_count = download_count + 1
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
