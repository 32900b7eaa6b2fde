package authcode

import "time"

// Code is a short-lived 6-digit email verification code, keyed by the email
// address it was issued to. One live code per email.
type Code struct {
	Email     string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Code) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
