package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateRange_InclusiveEndOfDay(t *testing.T) {
	r, err := NormalizeDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.NotNil(t, r.From)
	require.NotNil(t, r.To)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local), *r.From)

	lastMoment := time.Date(2024, time.March, 31, 23, 59, 59, int(999*time.Millisecond), time.Local)
	assert.Equal(t, lastMoment, *r.To)

	// A timestamp late on the To day is still inside the range
	late := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.Local)
	assert.True(t, TicketInRange(&domain.Ticket{ReportedDate: late}, r))

	// Midnight of the next day is outside
	next := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.Local)
	assert.False(t, TicketInRange(&domain.Ticket{ReportedDate: next}, r))
}

func TestNormalizeDateRange_OpenEnds(t *testing.T) {
	r, err := NormalizeDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.IsZero())
	assert.True(t, TicketInRange(&domain.Ticket{ReportedDate: time.Now()}, r))

	fromOnly, err := NormalizeDateRange("2024-03-15", "")
	require.NoError(t, err)
	assert.NotNil(t, fromOnly.From)
	assert.Nil(t, fromOnly.To)

	before := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.Local)
	after := time.Date(2024, time.December, 1, 12, 0, 0, 0, time.Local)
	assert.False(t, TicketInRange(&domain.Ticket{ReportedDate: before}, fromOnly))
	assert.True(t, TicketInRange(&domain.Ticket{ReportedDate: after}, fromOnly))

	toOnly, err := NormalizeDateRange("", "2024-03-15")
	require.NoError(t, err)
	assert.Nil(t, toOnly.From)
	assert.NotNil(t, toOnly.To)
	assert.True(t, TicketInRange(&domain.Ticket{ReportedDate: before}, toOnly))
	assert.False(t, TicketInRange(&domain.Ticket{ReportedDate: after}, toOnly))
}

func TestNormalizeDateRange_Malformed(t *testing.T) {
	_, err := NormalizeDateRange("03/01/2024", "")
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "date_from", valErr.Field)

	_, err = NormalizeDateRange("", "not-a-date")
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "date_to", valErr.Field)
}

func TestCurrentMonthRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
	r := CurrentMonthRange(now)

	require.NotNil(t, r.From)
	require.NotNil(t, r.To)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local), *r.From)
	assert.Equal(t, time.March, r.To.Month())
	assert.Equal(t, 31, r.To.Day())
	assert.Equal(t, 23, r.To.Hour())

	// February of a leap year ends on the 29th
	feb := CurrentMonthRange(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local))
	assert.Equal(t, 29, feb.To.Day())
}

func TestCurrentYearRange(t *testing.T) {
	now := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.Local)
	r := CurrentYearRange(now)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local), *r.From)
	assert.Equal(t, time.December, r.To.Month())
	assert.Equal(t, 31, r.To.Day())
}

func TestTicketInRange_MaintenanceTimeWins(t *testing.T) {
	r, err := NormalizeDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	reported := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.Local)
	maintenance := time.Date(2024, time.March, 20, 14, 0, 0, 0, time.Local)

	// Reported in January, scheduled for March: the March view includes it
	ticket := &domain.Ticket{
		ID:              uuid.New(),
		ReportedDate:    reported,
		MaintenanceTime: &maintenance,
	}
	assert.True(t, TicketInRange(ticket, r))

	// Without a maintenance time the reported date governs
	ticket.MaintenanceTime = nil
	assert.False(t, TicketInRange(ticket, r))
}
