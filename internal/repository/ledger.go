package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crew_loyalty/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type pointsTransaction struct {
	ID          uuid.UUID `db:"id"`
	UserID      string    `db:"user_id"`
	Type        string    `db:"type"`
	Points      int       `db:"points"`
	Description string    `db:"description"`
	OrderID     string    `db:"order_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// AppendTransaction adds one entry to the append-only ledger. There is no
// update or delete path for loyalty_transactions.
func (r *Repository) AppendTransaction(ctx context.Context, tx *model.PointsTransaction) error {
	query, args, err := squirrel.
		Insert("loyalty_transactions").
		SetMap(map[string]interface{}{
			"id":          tx.ID,
			"user_id":     tx.UserID,
			"type":        string(tx.Type),
			"points":      tx.Points,
			"description": tx.Description,
			"order_id":    tx.OrderID,
			"created_at":  tx.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// GetTransactions returns the user's full ledger in chronological order.
func (r *Repository) GetTransactions(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "type", "points", "description", "order_id", "created_at").
		From("loyalty_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []pointsTransaction
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]model.PointsTransaction, len(rows))
	for i, row := range rows {
		out[i] = model.PointsTransaction{
			ID:          row.ID,
			UserID:      row.UserID,
			Type:        model.TransactionType(row.Type),
			Points:      row.Points,
			Description: row.Description,
			OrderID:     row.OrderID,
			CreatedAt:   row.CreatedAt,
		}
	}
	return out, nil
}

func (r *Repository) GetEngagementPoints(ctx context.Context, userID string) (int, error) {
	query, args, err := squirrel.
		Select("points").
		From("engagement_points").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var points int
	err = r.db.GetContext(ctx, &points, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return points, nil
}

// AddEngagementPoints increments the separate monotonic engagement counter,
// creating the row on first activity.
func (r *Repository) AddEngagementPoints(ctx context.Context, userID string, delta int) error {
	query, args, err := squirrel.
		Insert("engagement_points").
		SetMap(map[string]interface{}{
			"user_id": userID,
			"points":  delta,
		}).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET points = engagement_points.points + EXCLUDED.points").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
