package repository

import (
	"context"
	"time"

	"crew_loyalty/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type clubMembership struct {
	UserID   string    `db:"user_id"`
	ClubID   string    `db:"club_id"`
	JoinedAt time.Time `db:"joined_at"`
}

type rideRecord struct {
	UserID       string    `db:"user_id"`
	ClubID       string    `db:"club_id"`
	RideID       string    `db:"ride_id"`
	RideName     string    `db:"ride_name"`
	AttendedAt   time.Time `db:"attended_at"`
	PointsEarned int       `db:"points_earned"`
}

func (r *Repository) GetMemberships(ctx context.Context, userID string) ([]model.ClubMembership, error) {
	query, args, err := squirrel.
		Select("user_id", "club_id", "joined_at").
		From("club_memberships").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("joined_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []clubMembership
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]model.ClubMembership, len(rows))
	for i, row := range rows {
		out[i] = model.ClubMembership{UserID: row.UserID, ClubID: row.ClubID, JoinedAt: row.JoinedAt}
	}
	return out, nil
}

// AddMembership is idempotent at the storage level: joining an already
// joined club returns ErrAlreadyExists.
func (r *Repository) AddMembership(ctx context.Context, membership *model.ClubMembership) error {
	query, args, err := squirrel.
		Insert("club_memberships").
		SetMap(map[string]interface{}{
			"user_id":   membership.UserID,
			"club_id":   membership.ClubID,
			"joined_at": membership.JoinedAt,
		}).
		Suffix("ON CONFLICT (user_id, club_id) DO NOTHING").
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

func (r *Repository) RemoveMembership(ctx context.Context, userID, clubID string) error {
	query, args, err := squirrel.
		Delete("club_memberships").
		Where(squirrel.Eq{"user_id": userID, "club_id": clubID}).
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

func (r *Repository) GetRideHistory(ctx context.Context, userID string) ([]model.RideRecord, error) {
	query, args, err := squirrel.
		Select("user_id", "club_id", "ride_id", "ride_name", "attended_at", "points_earned").
		From("ride_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("attended_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []rideRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]model.RideRecord, len(rows))
	for i, row := range rows {
		out[i] = model.RideRecord{
			UserID:       row.UserID,
			ClubID:       row.ClubID,
			RideID:       row.RideID,
			RideName:     row.RideName,
			AttendedAt:   row.AttendedAt,
			PointsEarned: row.PointsEarned,
		}
	}
	return out, nil
}

// AddRideRecord appends one attended ride. Ride ids are globally unique per
// user, so a duplicate returns ErrAlreadyExists and nothing is written.
func (r *Repository) AddRideRecord(ctx context.Context, record *model.RideRecord) error {
	query, args, err := squirrel.
		Insert("ride_history").
		SetMap(map[string]interface{}{
			"user_id":       record.UserID,
			"club_id":       record.ClubID,
			"ride_id":       record.RideID,
			"ride_name":     record.RideName,
			"attended_at":   record.AttendedAt,
			"points_earned": record.PointsEarned,
		}).
		Suffix("ON CONFLICT (user_id, ride_id) DO NOTHING").
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

type clubRides struct {
	ClubID  string         `db:"club_id"`
	RideIDs pq.StringArray `db:"ride_ids"`
}

// AttendedRidesByClub groups the user's attended ride ids per club.
func (r *Repository) AttendedRidesByClub(ctx context.Context, userID string) (map[string][]string, error) {
	query, args, err := squirrel.
		Select("club_id", "array_agg(ride_id ORDER BY attended_at) AS ride_ids").
		From("ride_history").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("club_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []clubRides
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		out[row.ClubID] = row.RideIDs
	}
	return out, nil
}
