package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crew_loyalty/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type userChallenge struct {
	UserID          string     `db:"user_id"`
	ChallengeID     string     `db:"challenge_id"`
	CurrentProgress float64    `db:"current_progress"`
	StartedAt       time.Time  `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
}

func (c userChallenge) toModel() model.Challenge {
	return model.Challenge{
		ID:              c.ChallengeID,
		CurrentProgress: c.CurrentProgress,
		StartedAt:       c.StartedAt,
		CompletedAt:     c.CompletedAt,
	}
}

// GetActiveChallenges returns the user's active instances, oldest first.
func (r *Repository) GetActiveChallenges(ctx context.Context, userID string) ([]model.Challenge, error) {
	query, args, err := squirrel.
		Select("user_id", "challenge_id", "current_progress", "started_at", "completed_at").
		From("user_challenges").
		Where(squirrel.Eq{"user_id": userID}).
		Where("completed_at IS NULL").
		OrderBy("started_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []userChallenge
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]model.Challenge, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// GetActiveChallenge returns one active instance or ErrNotFound.
func (r *Repository) GetActiveChallenge(ctx context.Context, userID, challengeID string) (*model.Challenge, error) {
	query, args, err := squirrel.
		Select("user_id", "challenge_id", "current_progress", "started_at", "completed_at").
		From("user_challenges").
		Where(squirrel.Eq{"user_id": userID, "challenge_id": challengeID}).
		Where("completed_at IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row userChallenge
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	challenge := row.toModel()
	return &challenge, nil
}

// CreateChallenge inserts a fresh active instance. Returns ErrAlreadyExists
// when an instance with the same id is already present for the user.
func (r *Repository) CreateChallenge(ctx context.Context, userID string, challenge *model.Challenge) error {
	query, args, err := squirrel.
		Insert("user_challenges").
		SetMap(map[string]interface{}{
			"user_id":          userID,
			"challenge_id":     challenge.ID,
			"current_progress": challenge.CurrentProgress,
			"started_at":       challenge.StartedAt,
			"completed_at":     challenge.CompletedAt,
		}).
		Suffix("ON CONFLICT (user_id, challenge_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// UpdateChallengeProgress sets the progress of an active instance.
func (r *Repository) UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress float64) error {
	query, args, err := squirrel.
		Update("user_challenges").
		Set("current_progress", progress).
		Where(squirrel.Eq{"user_id": userID, "challenge_id": challengeID}).
		Where("completed_at IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteChallenge stamps completed_at and records the id in the completed
// set. The set insert is idempotent.
func (r *Repository) CompleteChallenge(ctx context.Context, userID, challengeID string, progress float64, completedAt time.Time) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update("user_challenges").
			SetMap(map[string]interface{}{
				"current_progress": progress,
				"completed_at":     completedAt,
			}).
			Where(squirrel.Eq{"user_id": userID, "challenge_id": challengeID}).
			Where("completed_at IS NULL").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		setQuery, setArgs, err := squirrel.
			Insert("completed_challenges").
			SetMap(map[string]interface{}{
				"user_id":      userID,
				"challenge_id": challengeID,
				"completed_at": completedAt,
			}).
			Suffix("ON CONFLICT (user_id, challenge_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, setQuery, setArgs...)
		return err
	})
}

func (r *Repository) GetCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := squirrel.
		Select("challenge_id").
		From("completed_challenges").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("completed_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}
