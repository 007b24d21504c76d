package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cineghar/cineghar-api/internal/model"
)

// MovieRepo provides CRUD over the `movies` table.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieCols = "id,title,description,genres,duration_min,rating,poster_path,release_date,created_at,updated_at"

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var (
		m      model.Movie
		genres string
		poster sql.NullString
		rel    sql.NullTime
	)
	err := row.Scan(&m.ID, &m.Title, &m.Description, &genres, &m.DurationMin, &m.Rating, &poster, &rel, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	m.Genres = splitList(genres)
	if poster.Valid {
		s := poster.String
		m.PosterPath = &s
	}
	if rel.Valid {
		t := rel.Time
		m.ReleaseDate = &t
	}
	return m, nil
}

// Create inserts a movie and reads the row back so timestamps are filled.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	var poster any
	if m.PosterPath != nil {
		poster = *m.PosterPath
	}
	var rel any
	if m.ReleaseDate != nil {
		rel = *m.ReleaseDate
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, description, genres, duration_min, rating, poster_path, release_date) VALUES (?,?,?,?,?,?,?)",
		m.Title, m.Description, joinList(m.Genres), m.DurationMin, m.Rating, poster, rel)
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
	*m = fresh
	return nil
}

// GetByID fetches a movie by id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	m, err := scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// List returns one page of movies sorted by creation time descending plus
// the total count.
func (r *MovieRepo) List(ctx context.Context, page, limit int) ([]model.Movie, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieCols+" FROM movies ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MoviePatch carries the optional fields of a partial update. Nil means
// "leave unchanged"; updates merge rather than replace.
type MoviePatch struct {
	Title       *string
	Description *string
	Genres      []string
	DurationMin *uint32
	Rating      *float64
	PosterPath  *string
	ReleaseDate *time.Time
}

// Update merges the patch into the movie row.
func (r *MovieRepo) Update(ctx context.Context, id uint64, p MoviePatch) error {
	set := []string{}
	args := []any{}
	if p.Title != nil {
		set = append(set, "title=?")
		args = append(args, strings.TrimSpace(*p.Title))
	}
	if p.Description != nil {
		set = append(set, "description=?")
		args = append(args, *p.Description)
	}
	if p.Genres != nil {
		set = append(set, "genres=?")
		args = append(args, joinList(p.Genres))
	}
	if p.DurationMin != nil {
		set = append(set, "duration_min=?")
		args = append(args, *p.DurationMin)
	}
	if p.Rating != nil {
		set = append(set, "rating=?")
		args = append(args, *p.Rating)
	}
	if p.PosterPath != nil {
		set = append(set, "poster_path=?")
		args = append(args, *p.PosterPath)
	}
	if p.ReleaseDate != nil {
		set = append(set, "release_date=?")
		args = append(args, *p.ReleaseDate)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Delete removes a movie row. Missing ids return ErrMovieNotFound.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
