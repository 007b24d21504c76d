// Package mailer sends transactional mail. The only mail this service
// sends today is the password-reset link.
package mailer

// Mailer delivers a password-reset link to a user. Implementations must
// not reveal delivery failures to the HTTP caller; the forgot-password
// endpoint answers identically whether or not the address exists.
type Mailer interface {
	SendPasswordReset(toEmail, toName, link string) error
}
