package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/axmetovrr/elibrary/internal/models"
)

// CreateInstitution сохраняет новую организацию и возвращает её UID.
func (s *Storage) CreateInstitution(ctx context.Context, inst models.Institution) (string, error) {
	const op = "storage.CreateInstitution"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO institutions (name, email)
			  VALUES ($1, $2)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query, inst.Name, inst.Email).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetInstitution возвращает организацию по её UID.
func (s *Storage) GetInstitution(ctx context.Context, uid string) (*models.Institution, error) {
	const op = "storage.GetInstitution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, created_at
			  FROM institutions
			  WHERE uid = $1`
	inst := &models.Institution{}
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&inst.UID, &inst.Name, &inst.Email, &inst.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inst, nil
}

// ListInstitutions возвращает список организаций с пагинацией.
func (s *Storage) ListInstitutions(ctx context.Context, limit, offset int) ([]*models.Institution, error) {
	const op = "storage.ListInstitutions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, created_at
			  FROM institutions
			  ORDER BY name
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Institution
	for rows.Next() {
		var item models.Institution
		if err := rows.Scan(&item.UID, &item.Name, &item.Email, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
