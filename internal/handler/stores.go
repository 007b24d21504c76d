package handler

import (
	"context"
	"time"

	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/repository"
)

// Store interfaces consumed by the handlers. The repository structs
// satisfy them; tests substitute in-memory fakes. Handlers never reach
// past these into the database.

type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, id uint64, p repository.UserPatch) error
	UpdateProfile(ctx context.Context, id uint64, name *string, dob *time.Time, imagePath *string) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	Delete(ctx context.Context, id uint64) error
}

type ResetStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Consume(ctx context.Context, tokenHash string) (uint64, error)
}

type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
	List(ctx context.Context, page, limit int) ([]model.Movie, int64, error)
	Update(ctx context.Context, id uint64, p repository.MoviePatch) error
	Delete(ctx context.Context, id uint64) error
}

type HallStore interface {
	Create(ctx context.Context, h *model.CinemaHall) error
	GetByID(ctx context.Context, id uint64) (model.CinemaHall, error)
	List(ctx context.Context, page, limit int) ([]model.CinemaHall, int64, error)
	Update(ctx context.Context, id uint64, p repository.HallPatch) error
	Delete(ctx context.Context, id uint64) error
}

type ShowtimeStore interface {
	Create(ctx context.Context, s *model.Showtime) error
	GetByID(ctx context.Context, id uint64) (model.Showtime, error)
	List(ctx context.Context, page, limit int) ([]model.Showtime, int64, error)
	ListDetail(ctx context.Context, movieID, hallID uint64) ([]model.ShowtimeDetail, error)
	Update(ctx context.Context, id uint64, p repository.ShowtimePatch) error
	Delete(ctx context.Context, id uint64) error
}

type OfferStore interface {
	Create(ctx context.Context, o *model.Offer) error
	GetByID(ctx context.Context, id uint64) (model.Offer, error)
	GetByCode(ctx context.Context, code string) (model.Offer, error)
	List(ctx context.Context, page, limit int) ([]model.Offer, int64, error)
	Update(ctx context.Context, id uint64, p repository.OfferPatch) error
	Delete(ctx context.Context, id uint64) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByPidx(ctx context.Context, pidx string) (model.Payment, error)
	UpdateStatus(ctx context.Context, pidx, status string) error
}
