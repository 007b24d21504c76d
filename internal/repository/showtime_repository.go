package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cineghar/cineghar-api/internal/model"
)

// ShowtimeRepo provides CRUD over the `showtimes` table. List endpoints
// that need movie and hall names use the detail queries, which join both
// tables instead of stuffing populated objects into the reference fields.
type ShowtimeRepo struct{ DB *sql.DB }

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{DB: db} }

const showtimeCols = "id,movie_id,hall_id,starts_at,created_at,updated_at"

func scanShowtime(row interface{ Scan(...any) error }) (model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a showtime and reads the row back.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO showtimes (movie_id, hall_id, starts_at) VALUES (?,?,?)",
		s.MovieID, s.HallID, s.StartsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = fresh
	return nil
}

// GetByID fetches a showtime by id.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	s, err := scanShowtime(r.DB.QueryRowContext(ctx,
		"SELECT "+showtimeCols+" FROM showtimes WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	return s, err
}

// List returns one page of showtimes sorted by creation time descending
// plus the total count.
func (r *ShowtimeRepo) List(ctx context.Context, page, limit int) ([]model.Showtime, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM showtimes").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+showtimeCols+" FROM showtimes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Showtime, 0, limit)
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListDetail returns expanded showtime rows joined with movie and hall,
// optionally filtered by movie and/or hall, soonest first.
func (r *ShowtimeRepo) ListDetail(ctx context.Context, movieID, hallID uint64) ([]model.ShowtimeDetail, error) {
	where := []string{"1=1"}
	args := []any{}
	if movieID != 0 {
		where = append(where, "s.movie_id = ?")
		args = append(args, movieID)
	}
	if hallID != 0 {
		where = append(where, "s.hall_id = ?")
		args = append(args, hallID)
	}
	q := `SELECT s.id, s.movie_id, m.title, m.duration_min, s.hall_id, h.name, h.city, s.starts_at
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		JOIN halls  h ON h.id = s.hall_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.starts_at ASC`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShowtimeDetail{}
	for rows.Next() {
		var d model.ShowtimeDetail
		if err := rows.Scan(&d.ID, &d.MovieID, &d.MovieTitle, &d.DurationMin, &d.HallID, &d.HallName, &d.City, &d.StartsAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByHallBetween returns showtimes in a hall whose start falls inside
// [from, to). Kept for a future overlap guard; writes do not call it.
func (r *ShowtimeRepo) ListByHallBetween(ctx context.Context, hallID uint64, from, to time.Time) ([]model.Showtime, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+showtimeCols+" FROM showtimes WHERE hall_id=? AND starts_at >= ? AND starts_at < ? ORDER BY starts_at",
		hallID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Showtime{}
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ShowtimePatch carries the optional fields of a partial update.
type ShowtimePatch struct {
	MovieID  *uint64
	HallID   *uint64
	StartsAt *time.Time
}

// Update merges the patch into the showtime row.
func (r *ShowtimeRepo) Update(ctx context.Context, id uint64, p ShowtimePatch) error {
	set := []string{}
	args := []any{}
	if p.MovieID != nil {
		set = append(set, "movie_id=?")
		args = append(args, *p.MovieID)
	}
	if p.HallID != nil {
		set = append(set, "hall_id=?")
		args = append(args, *p.HallID)
	}
	if p.StartsAt != nil {
		set = append(set, "starts_at=?")
		args = append(args, *p.StartsAt)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE showtimes SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// Delete removes a showtime row. Missing ids return ErrShowtimeNotFound.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM showtimes WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}
