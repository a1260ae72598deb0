package user

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`

	// Payout destination. A payout request requires at least one of
	// bank account or UPI handle on file.
	BankAccountNumber *string `db:"bank_account_number" json:"bank_account_number,omitempty"`
	BankIFSC          *string `db:"bank_ifsc" json:"bank_ifsc,omitempty"`
	UPIID             *string `db:"upi_id" json:"upi_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasPayoutDestination reports whether the user can receive payouts.
func (u *User) HasPayoutDestination() bool {
	return (u.BankAccountNumber != nil && *u.BankAccountNumber != "") ||
		(u.UPIID != nil && *u.UPIID != "")
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=student owner"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type UpdateBankDetailsRequest struct {
	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`
	UPIID             string `json:"upi_id"`
}
