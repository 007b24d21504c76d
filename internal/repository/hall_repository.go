package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cineghar/cineghar-api/internal/model"
)

// HallRepo provides CRUD over the `halls` table.
type HallRepo struct{ DB *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

const hallCols = "id,name,city,location,rating,facilities,created_at,updated_at"

func scanHall(row interface{ Scan(...any) error }) (model.CinemaHall, error) {
	var (
		h      model.CinemaHall
		rating sql.NullFloat64
		fac    string
	)
	err := row.Scan(&h.ID, &h.Name, &h.City, &h.Location, &rating, &fac, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return model.CinemaHall{}, err
	}
	if rating.Valid {
		v := rating.Float64
		h.Rating = &v
	}
	h.Facilities = splitList(fac)
	return h, nil
}

// Create inserts a hall and reads the row back so timestamps are filled.
func (r *HallRepo) Create(ctx context.Context, h *model.CinemaHall) error {
	var rating any
	if h.Rating != nil {
		rating = *h.Rating
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO halls (name, city, location, rating, facilities) VALUES (?,?,?,?,?)",
		h.Name, h.City, h.Location, rating, joinList(h.Facilities))
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
	*h = fresh
	return nil
}

// GetByID fetches a hall by id.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.CinemaHall, error) {
	h, err := scanHall(r.DB.QueryRowContext(ctx,
		"SELECT "+hallCols+" FROM halls WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.CinemaHall{}, ErrHallNotFound
	}
	return h, err
}

// List returns one page of halls sorted by creation time descending plus
// the total count.
func (r *HallRepo) List(ctx context.Context, page, limit int) ([]model.CinemaHall, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM halls").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+hallCols+" FROM halls ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.CinemaHall, 0, limit)
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HallPatch carries the optional fields of a partial hall update.
type HallPatch struct {
	Name       *string
	City       *string
	Location   *string
	Rating     *float64
	Facilities []string
}

// Update merges the patch into the hall row.
func (r *HallRepo) Update(ctx context.Context, id uint64, p HallPatch) error {
	set := []string{}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, strings.TrimSpace(*p.Name))
	}
	if p.City != nil {
		set = append(set, "city=?")
		args = append(args, *p.City)
	}
	if p.Location != nil {
		set = append(set, "location=?")
		args = append(args, strings.TrimSpace(*p.Location))
	}
	if p.Rating != nil {
		set = append(set, "rating=?")
		args = append(args, *p.Rating)
	}
	if p.Facilities != nil {
		set = append(set, "facilities=?")
		args = append(args, joinList(p.Facilities))
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE halls SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}

// Delete removes a hall row. Missing ids return ErrHallNotFound.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM halls WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}
