package listing

import "time"

type Room struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	Price       int64     `db:"price" json:"price"`
	Deposit     int64     `db:"deposit" json:"deposit"`
	IsApproved  bool      `db:"is_approved" json:"is_approved"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type MessPlan struct {
	ID           int       `db:"id" json:"id"`
	OwnerID      int       `db:"owner_id" json:"owner_id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Location     string    `db:"location" json:"location"`
	MonthlyPrice int64     `db:"monthly_price" json:"monthly_price"`
	IsApproved   bool      `db:"is_approved" json:"is_approved"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Bookable reports whether a room can accept new bookings.
func (r *Room) Bookable() bool {
	return r.IsApproved && r.IsActive
}

func (m *MessPlan) Bookable() bool {
	return m.IsApproved && m.IsActive
}

type CreateRoomRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
	Price       int64  `json:"price" binding:"required,gte=0"`
	Deposit     int64  `json:"deposit" binding:"gte=0"`
}

type UpdateRoomRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
	Price       int64  `json:"price" binding:"required,gte=0"`
	Deposit     int64  `json:"deposit" binding:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type CreateMessPlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Location     string `json:"location" binding:"required"`
	MonthlyPrice int64  `json:"monthly_price" binding:"required,gte=0"`
}

type UpdateMessPlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Location     string `json:"location" binding:"required"`
	MonthlyPrice int64  `json:"monthly_price" binding:"required,gte=0"`
	IsActive     *bool  `json:"is_active"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}
