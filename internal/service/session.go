package service

import (
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
)

// Session identifies the acting user and supplies the clock. It is passed
// explicitly to every user-scoped operation.
type Session struct {
	UserID string
	Clock  func() time.Time
}

// NewSession returns a session for userID using the system clock.
func NewSession(userID string) Session {
	return Session{UserID: userID}
}

// Now returns the session's current time.
func (s Session) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Today returns the calendar date of Now in the clock's location.
func (s Session) Today() time.Time {
	return domain.CalendarDate(s.Now())
}
