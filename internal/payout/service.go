package payout

import (
	"context"
	"errors"
	"fmt"

	"roomnmeal/internal/metrics"
	"roomnmeal/internal/user"
)

var (
	ErrNotAuthorized            = errors.New("not authorized")
	ErrMissingPayoutDestination = errors.New("no payout destination on file")
)

// UserDirectory is the slice of the user repository needed to check the
// owner's payout destination.
type UserDirectory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Notifier delivers best-effort notifications. Implementations must
// never block the request path.
type Notifier interface {
	Notify(ctx context.Context, userID int, title, body string, metadata map[string]string)
}

type Service interface {
	Request(ctx context.Context, ownerID int, amount int64) (*Payout, error)
	Balance(ctx context.Context, ownerID int) (int64, error)
	ListMine(ctx context.Context, ownerID int) ([]Payout, error)
	ListAll(ctx context.Context) ([]Payout, error)
	UpdateStatus(ctx context.Context, id int, req UpdatePayoutRequest) (*Payout, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
}

func NewService(repo Repository, users UserDirectory, notifier Notifier) Service {
	return &service{repo: repo, users: users, notifier: notifier}
}

func (s *service) Request(ctx context.Context, ownerID int, amount int64) (*Payout, error) {
	u, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if !u.HasPayoutDestination() {
		return nil, ErrMissingPayoutDestination
	}

	p, err := s.repo.Create(ctx, ownerID, amount)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			metrics.RecordPayoutRequest("insufficient_balance")
		}
		return nil, err
	}

	metrics.RecordPayoutRequest("created")

	s.notifier.Notify(ctx, ownerID, "Payout requested",
		fmt.Sprintf("Your payout request for %d is pending review.", p.Amount),
		map[string]string{"payout_id": fmt.Sprint(p.ID)})

	return p, nil
}

func (s *service) Balance(ctx context.Context, ownerID int) (int64, error) {
	return s.repo.AvailableBalance(ctx, ownerID)
}

func (s *service) ListMine(ctx context.Context, ownerID int) ([]Payout, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) ListAll(ctx context.Context) ([]Payout, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus applies an admin transition. Any target status is
// allowed; rejecting a payout returns its amount to the owner's
// available balance.
func (s *service) UpdateStatus(ctx context.Context, id int, req UpdatePayoutRequest) (*Payout, error) {
	var txID, notes *string
	if req.TransactionID != "" {
		txID = &req.TransactionID
	}
	if req.AdminNotes != "" {
		notes = &req.AdminNotes
	}

	p, err := s.repo.UpdateStatus(ctx, id, req.Status, txID, notes)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, p.OwnerID, "Payout update",
		fmt.Sprintf("Your payout request for %d is now %s.", p.Amount, p.Status),
		map[string]string{"payout_id": fmt.Sprint(p.ID), "status": p.Status})

	return p, nil
}
