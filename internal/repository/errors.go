// Package repository holds the data access layer. Sentinel errors defined
// here let handlers distinguish failure scenarios without inspecting
// driver-specific errors: not-found sentinels become HTTP 404, the
// uniqueness sentinels become HTTP 409.
package repository

import "errors"

var (
	// ErrEmailExists is returned when a user insert hits the unique
	// email index.
	ErrEmailExists = errors.New("email already exists")

	// ErrOfferCodeExists is returned when an offer insert or update hits
	// the unique code index.
	ErrOfferCodeExists = errors.New("offer code already exists")

	// Not-found sentinels, one per entity so handlers can emit typed
	// "not found" messages.
	ErrUserNotFound     = errors.New("user not found")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrHallNotFound     = errors.New("hall not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrPaymentNotFound  = errors.New("payment not found")

	// ErrResetInvalid is returned when a password-reset token is
	// unknown, expired, or already used.
	ErrResetInvalid = errors.New("reset token invalid")
)
