package notify

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"roomnmeal/internal/logger"
	"roomnmeal/internal/user"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type fakeRepo struct {
	created []Notification
	err     error
}

func (f *fakeRepo) Create(_ context.Context, userID int, title, body string, metadata types.JSONText) (*Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := Notification{ID: len(f.created) + 1, UserID: userID, Title: title, Body: body, Metadata: metadata}
	f.created = append(f.created, n)
	return &n, nil
}

func (f *fakeRepo) ListByUser(context.Context, int) ([]Notification, error) { return f.created, nil }
func (f *fakeRepo) MarkRead(context.Context, int, int) error               { return nil }
func (f *fakeRepo) UnreadCount(context.Context, int) (int, error)          { return 0, nil }

type fakeUsers struct {
	u   *user.User
	err error
}

func (f *fakeUsers) FindByID(context.Context, int) (*user.User, error) {
	return f.u, f.err
}

func newTestService(repo Repository, users UserDirectory, rdb *redis.Client) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		redis:    rdb,
		from:     "noreply@roomnmeal.com",
		fromName: "RoomNMeal",
		smtpHost: "smtp.test.com",
		smtpPort: "587",
		smtpUser: "test@example.com",
		smtpPass: "password",
	}
}

func TestNotifyStoresRowAndQueuesEmail(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	repo := &fakeRepo{}
	users := &fakeUsers{u: &user.User{ID: 5, Name: "Asha", Email: "asha@example.com"}}
	svc := newTestService(repo, users, db)

	svc.Notify(ctx, 5, "Booking confirmed", "Your booking is confirmed.", map[string]string{"booking_id": "1"})

	assert.Len(t, repo.created, 1)
	assert.Equal(t, "Booking confirmed", repo.created[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifySurvivesStoreFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	repo := &fakeRepo{err: assert.AnError}
	users := &fakeUsers{u: &user.User{ID: 5, Name: "Asha", Email: "asha@example.com"}}
	svc := newTestService(repo, users, db)

	// Must not panic or skip the email when the insert fails.
	svc.Notify(ctx, 5, "Payout update", "Your payout is paid.", nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyUnknownRecipientQueuesNothing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	repo := &fakeRepo{}
	users := &fakeUsers{err: assert.AnError}
	svc := newTestService(repo, users, db)

	svc.Notify(ctx, 99, "Title", "Body", nil)

	// Row is still written; only the email leg is dropped.
	assert.Len(t, repo.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen(queueKey).SetVal(5)

	svc := newTestService(&fakeRepo{}, &fakeUsers{}, db)

	assert.Equal(t, int64(5), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLengthZero(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen(queueKey).SetVal(0)

	svc := newTestService(&fakeRepo{}, &fakeUsers{}, db)

	assert.Equal(t, int64(0), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueEmailRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(&fakeRepo{}, &fakeUsers{}, db)

	err := svc.queueEmail(ctx, "user@example.com", "User", "Hello", "Body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
