package service

import (
	"time"

	"github.com/kioskcare/helpdesk/internal/domain"
)

const dateLayout = "2006-01-02"

// DateRange is a canonical inclusive filter range. Nil bounds are open ends;
// a range with both bounds nil matches everything.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// NormalizeDateRange converts optional YYYY-MM-DD strings into an inclusive
// range: From is the start of that calendar day, To is the end of it
// (23:59:59.999 local), so a ticket timestamped anywhere within the To day
// is included. Malformed input is a ValidationError, never silently dropped.
func NormalizeDateRange(fromStr, toStr string) (DateRange, error) {
	var r DateRange

	if fromStr != "" {
		day, err := time.ParseInLocation(dateLayout, fromStr, time.Local)
		if err != nil {
			return DateRange{}, &domain.ValidationError{Field: "date_from", Message: "must be a YYYY-MM-DD date"}
		}
		r.From = &day
	}

	if toStr != "" {
		day, err := time.ParseInLocation(dateLayout, toStr, time.Local)
		if err != nil {
			return DateRange{}, &domain.ValidationError{Field: "date_to", Message: "must be a YYYY-MM-DD date"}
		}
		end := endOfDay(day)
		r.To = &end
	}

	return r, nil
}

// CurrentMonthRange returns the inclusive range covering the first through
// last calendar day of now's month, in local time.
func CurrentMonthRange(now time.Time) DateRange {
	year, month, _ := now.Date()
	from := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	to := endOfDay(from.AddDate(0, 1, -1))
	return DateRange{From: &from, To: &to}
}

// CurrentYearRange returns the inclusive range covering now's calendar year,
// in local time.
func CurrentYearRange(now time.Time) DateRange {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := endOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location()))
	return DateRange{From: &from, To: &to}
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// TicketInRange reports whether a ticket's effective date falls inside the
// range. The scheduled maintenance time wins over the reported date when
// set; this means a ticket's membership in a dated view can move once a
// maintenance time is assigned, which is intended.
func TicketInRange(ticket *domain.Ticket, r DateRange) bool {
	if r.IsZero() {
		return true
	}

	date := ticket.EffectiveDate()
	if r.From != nil && date.Before(*r.From) {
		return false
	}
	if r.To != nil && date.After(*r.To) {
		return false
	}
	return true
}
