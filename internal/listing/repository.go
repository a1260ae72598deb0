package listing

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("listing not found")

const roomColumns = `id, owner_id, title, description, location, price, deposit, is_approved, is_active, created_at, updated_at`
const messColumns = `id, owner_id, name, description, location, monthly_price, is_approved, is_active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoom(ctx context.Context, ownerID int, req CreateRoomRequest) (*Room, error) {
	query := `
		INSERT INTO rooms (owner_id, title, description, location, price, deposit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + roomColumns

	var room Room
	err := r.db.GetContext(ctx, &room, query,
		ownerID, req.Title, req.Description, req.Location, req.Price, req.Deposit)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) ListApprovedRooms(ctx context.Context) ([]Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE is_approved = TRUE AND is_active = TRUE
		ORDER BY created_at DESC
	`

	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, query)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *repository) ListRoomsByOwner(ctx context.Context, ownerID int) ([]Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE owner_id = $1 ORDER BY created_at DESC`

	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, query, ownerID)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *repository) UpdateRoom(ctx context.Context, id int, req UpdateRoomRequest) (*Room, error) {
	query := `
		UPDATE rooms
		SET title = $2, description = $3, location = $4, price = $5, deposit = $6,
		    is_active = COALESCE($7, is_active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roomColumns

	var room Room
	err := r.db.GetContext(ctx, &room, query,
		id, req.Title, req.Description, req.Location, req.Price, req.Deposit, req.IsActive)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) SetRoomApproval(ctx context.Context, id int, approved bool) (*Room, error) {
	query := `
		UPDATE rooms
		SET is_approved = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roomColumns

	var room Room
	err := r.db.GetContext(ctx, &room, query, id, approved)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) DeleteRoom(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) CreateMessPlan(ctx context.Context, ownerID int, req CreateMessPlanRequest) (*MessPlan, error) {
	query := `
		INSERT INTO mess_plans (owner_id, name, description, location, monthly_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messColumns

	var plan MessPlan
	err := r.db.GetContext(ctx, &plan, query,
		ownerID, req.Name, req.Description, req.Location, req.MonthlyPrice)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) GetMessPlanByID(ctx context.Context, id int) (*MessPlan, error) {
	query := `SELECT ` + messColumns + ` FROM mess_plans WHERE id = $1`

	var plan MessPlan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) ListApprovedMessPlans(ctx context.Context) ([]MessPlan, error) {
	query := `
		SELECT ` + messColumns + `
		FROM mess_plans
		WHERE is_approved = TRUE AND is_active = TRUE
		ORDER BY created_at DESC
	`

	var plans []MessPlan
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) ListMessPlansByOwner(ctx context.Context, ownerID int) ([]MessPlan, error) {
	query := `SELECT ` + messColumns + ` FROM mess_plans WHERE owner_id = $1 ORDER BY created_at DESC`

	var plans []MessPlan
	err := r.db.SelectContext(ctx, &plans, query, ownerID)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) UpdateMessPlan(ctx context.Context, id int, req UpdateMessPlanRequest) (*MessPlan, error) {
	query := `
		UPDATE mess_plans
		SET name = $2, description = $3, location = $4, monthly_price = $5,
		    is_active = COALESCE($6, is_active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + messColumns

	var plan MessPlan
	err := r.db.GetContext(ctx, &plan, query,
		id, req.Name, req.Description, req.Location, req.MonthlyPrice, req.IsActive)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) SetMessPlanApproval(ctx context.Context, id int, approved bool) (*MessPlan, error) {
	query := `
		UPDATE mess_plans
		SET is_approved = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + messColumns

	var plan MessPlan
	err := r.db.GetContext(ctx, &plan, query, id, approved)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *repository) DeleteMessPlan(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mess_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
