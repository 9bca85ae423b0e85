package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/axmetovrr/elibrary/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (owner_uid, owner_type, plan_name, price,
			      duration_days, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.OwnerUID, sub.OwnerType, sub.PlanName, sub.Price, sub.DurationDays,
		sub.StartDate, sub.EndDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
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

// UpdateSubscription обновляет данные подписки по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET plan_name = $1, price = $2, duration_days = $3,
			      start_date = $4, end_date = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		sub.PlanName, sub.Price, sub.DurationDays, sub.StartDate, sub.EndDate, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptionsByOwner возвращает историю подписок владельца.
func (s *Storage) ListSubscriptionsByOwner(ctx context.Context, ownerUID, ownerType string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, owner_type, plan_name, price, duration_days, start_date, end_date
			  FROM subscriptions
			  WHERE owner_uid = $1 AND owner_type = $2
			  ORDER BY start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, ownerType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.OwnerUID, &item.OwnerType, &item.PlanName,
			&item.Price, &item.DurationDays, &item.StartDate, &item.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает список всех подписок с пагинацией.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, owner_type, plan_name, price, duration_days, start_date, end_date
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.OwnerUID, &item.OwnerType, &item.PlanName,
			&item.Price, &item.DurationDays, &item.StartDate, &item.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// HasActiveSubscription проверяет, есть ли у владельца подписка,
// действующая в указанный момент. Перекрывающиеся подписки не различаются:
// достаточно любой строки, удовлетворяющей предикату.
func (s *Storage) HasActiveSubscription(ctx context.Context, ownerUID, ownerType string, now time.Time) (bool, error) {
	const op = "storage.HasActiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE owner_uid = $1
			        AND owner_type = $2
			        AND start_date <= $3
			        AND end_date >= $3
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, ownerUID, ownerType, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// FindSubscriptionsExpiringTomorrow находит подписки, истекающие завтра,
// вместе с контактной почтой владельца (пользователя или организации).
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.SubscriptionInfo, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      COALESCE(u.email, i.email) AS email,
			      COALESCE(u.username, i.name) AS owner_name,
			      s.plan_name,
			      s.end_date
			  FROM subscriptions s
			  LEFT JOIN users u ON s.owner_type = 'user' AND s.owner_uid = u.uid
			  LEFT JOIN institutions i ON s.owner_type = 'institution' AND s.owner_uid = i.uid
			  WHERE s.end_date::DATE = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionInfo
	for rows.Next() {
		var si models.SubscriptionInfo
		if err = rows.Scan(&si.Email, &si.OwnerName, &si.PlanName, &si.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &si)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
