package export

import (
	"bytes"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	at := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)
	bookings := []*models.Booking{
		{
			ID: 7, ItemID: 3, BookerID: 2,
			Start:  time.Date(2030, 5, 2, 10, 0, 0, 0, time.UTC),
			End:    time.Date(2030, 5, 3, 10, 0, 0, 0, time.UTC),
			Status: models.StatusApproved,
			Item:   &models.ItemRef{ID: 3, Name: "Drill"},
			Booker: &models.UserRef{ID: 2, Name: "Ann"},
		},
		{
			ID: 8, ItemID: 4, BookerID: 5,
			Start:  time.Date(2030, 5, 4, 10, 0, 0, 0, time.UTC),
			End:    time.Date(2030, 5, 5, 10, 0, 0, 0, time.UTC),
			Status: models.StatusWaiting,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings, models.StateAll, at))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "State: ALL, generated 2030-05-01 09:30 UTC", rows[0][0])
	assert.Equal(t, headers, rows[1])
	assert.Equal(t, []string{"7", "Drill", "Ann", "2030-05-02 10:00", "2030-05-03 10:00", "APPROVED"}, rows[2])
	assert.Equal(t, []string{"8", "#4", "#5", "2030-05-04 10:00", "2030-05-05 10:00", "WAITING"}, rows[3])
}

func TestWriteBookingsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, nil, models.StatePast, time.Now()))
	assert.NotZero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	at := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "bookings_5_FUTURE_20300501_093000.xlsx", FileName(5, models.StateFuture, at))
}
