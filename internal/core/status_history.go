package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusHistory is the append-only ledger of delivery status transitions.
// Rows are never updated or deleted.
type StatusHistory interface {
	Append(ctx context.Context, deliveryID, statusID, actingUserID int) (int, error)

	// ListByDelivery returns entries newest first. The result is empty only
	// when the delivery does not exist.
	ListByDelivery(ctx context.Context, deliveryID int) ([]StatusHistoryEntry, error)
}

type statusHistory struct {
	pool *pgxpool.Pool
}

func NewStatusHistory(pool *pgxpool.Pool) StatusHistory {
	return &statusHistory{pool: pool}
}

func (s *statusHistory) Append(ctx context.Context, deliveryID, statusID, actingUserID int) (int, error) {
	return appendStatus(ctx, s.pool, deliveryID, statusID, actingUserID)
}

// appendStatus inserts one history row through q so delivery creation can
// run it inside its own transaction.
func appendStatus(ctx context.Context, q pgxQuerier, deliveryID, statusID, actingUserID int) (int, error) {
	var id int
	err := q.QueryRow(ctx, `
		INSERT INTO order_status_history (order_delivery_id, status_id, updated_by, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id`,
		deliveryID, statusID, actingUserID,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "append status history",
			"invalid order_delivery_id, status_id or updated_by")
	}
	return id, nil
}

func (s *statusHistory) ListByDelivery(ctx context.Context, deliveryID int) ([]StatusHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.order_delivery_id, h.status_id, COALESCE(st.status_title, ''), h.updated_by, h.created_at
		FROM order_status_history h
		LEFT JOIN order_statuses st ON st.id = h.status_id
		WHERE h.order_delivery_id = $1
		ORDER BY h.created_at DESC, h.id DESC`, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	entries := []StatusHistoryEntry{}
	for rows.Next() {
		var e StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.DeliveryID, &e.StatusID, &e.StatusTitle, &e.UpdatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
