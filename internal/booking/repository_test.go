package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func bookingRows(id, userID int, status string, amount int64) *sqlmock.Rows {
	now := time.Now()
	roomID := 1
	months := 2
	return sqlmock.NewRows([]string{
		"id", "user_id", "booking_type", "room_id", "mess_plan_id",
		"start_date", "end_date", "duration_months", "total_amount",
		"status", "payment_id", "created_at", "updated_at",
	}).AddRow(id, userID, TypeRoom, roomID, nil, now, now.AddDate(0, months, 0), months, amount, status, nil, now, now)
}

func TestCreateBookingRow(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	roomID := 1
	months := 2

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(10, TypeRoom, roomID, nil, start, end, months, int64(15000)).
		WillReturnRows(bookingRows(1, 10, StatusPending, 15000))

	b, err := repo.Create(context.Background(), CreateParams{
		UserID:      10,
		BookingType: TypeRoom,
		RoomID:      &roomID,
		StartDate:   start,
		EndDate:     &end,
		DurationMonths: &months,
		TotalAmount: 15000,
	})
	require.NoError(t, err)
	require.Equal(t, 1, b.ID)
	require.Equal(t, StatusPending, b.Status)
}

func TestCancelPending(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'cancelled'")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CancelPending(context.Background(), 5))

	// Zero rows: booking missing or already left pending.
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'cancelled'")).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CancelPending(context.Background(), 6)
	require.ErrorIs(t, err, ErrNotPendingOrMissing)
}

func TestUpdateStatusUnconditional(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(5, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 5, StatusConfirmed))
}

func TestSetStatusAndPayment(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectExec(regexp.QuoteMeta("SET status = $2, payment_id = $3")).
		WithArgs(5, StatusConfirmed, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStatusAndPayment(context.Background(), 5, StatusConfirmed, 42))
}

func TestListByUser(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = $1")).
		WithArgs(10).
		WillReturnRows(bookingRows(1, 10, StatusPending, 15000))

	list, err := repo.ListByUser(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(15000), list[0].TotalAmount)
}
