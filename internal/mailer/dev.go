package mailer

import "log"

// DevMailer logs reset links instead of sending mail. Used whenever no
// SMTP host is configured, so local setups need zero mail infrastructure.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) SendPasswordReset(toEmail, toName, link string) error {
	log.Printf("mailer(dev): password reset for %s <%s>: %s", toName, toEmail, link)
	return nil
}
