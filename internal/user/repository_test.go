package user

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

func userRows(id int, name, email, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "password_hash", "role",
		"bank_account_number", "bank_ifsc", "upi_id", "created_at", "updated_at",
	}).AddRow(id, name, email, "9999999999", "hash", role, nil, nil, nil, now, now)
}

func TestCreateUser(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Asha", "asha@x.com", "9999999999", "hash", "student").
		WillReturnRows(userRows(1, "Asha", "asha@x.com", "student"))

	u, err := repo.Create(context.Background(), "Asha", "asha@x.com", "9999999999", "hash", "student")
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Equal(t, "student", u.Role)
}

func TestFindByEmail(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("o@x.com").
		WillReturnRows(userRows(2, "Om", "o@x.com", "owner"))

	u, err := repo.FindByEmail(context.Background(), "o@x.com")
	require.NoError(t, err)
	require.Equal(t, "owner", u.Role)
}

func TestEmailExists(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("dup@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "dup@x.com")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpdateBankDetails(t *testing.T) {
	repo, mock, closeFn := setupMock(t)
	defer closeFn()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "password_hash", "role",
		"bank_account_number", "bank_ifsc", "upi_id", "created_at", "updated_at",
	}).AddRow(2, "Om", "o@x.com", "", "hash", "owner", "1234567890", "HDFC0001", nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WithArgs(2, "1234567890", "HDFC0001", "").
		WillReturnRows(rows)

	u, err := repo.UpdateBankDetails(context.Background(), 2, "1234567890", "HDFC0001", "")
	require.NoError(t, err)
	require.True(t, u.HasPayoutDestination())
}

func TestHasPayoutDestination(t *testing.T) {
	var u User
	require.False(t, u.HasPayoutDestination())

	upi := "om@upi"
	u.UPIID = &upi
	require.True(t, u.HasPayoutDestination())

	empty := ""
	u.UPIID = &empty
	require.False(t, u.HasPayoutDestination())

	acct := "1234567890"
	u.BankAccountNumber = &acct
	require.True(t, u.HasPayoutDestination())
}
