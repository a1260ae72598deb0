package listing

import "context"

type Repository interface {
	CreateRoom(ctx context.Context, ownerID int, req CreateRoomRequest) (*Room, error)
	GetRoomByID(ctx context.Context, id int) (*Room, error)
	ListApprovedRooms(ctx context.Context) ([]Room, error)
	ListRoomsByOwner(ctx context.Context, ownerID int) ([]Room, error)
	UpdateRoom(ctx context.Context, id int, req UpdateRoomRequest) (*Room, error)
	SetRoomApproval(ctx context.Context, id int, approved bool) (*Room, error)
	DeleteRoom(ctx context.Context, id int) error

	CreateMessPlan(ctx context.Context, ownerID int, req CreateMessPlanRequest) (*MessPlan, error)
	GetMessPlanByID(ctx context.Context, id int) (*MessPlan, error)
	ListApprovedMessPlans(ctx context.Context) ([]MessPlan, error)
	ListMessPlansByOwner(ctx context.Context, ownerID int) ([]MessPlan, error)
	UpdateMessPlan(ctx context.Context, id int, req UpdateMessPlanRequest) (*MessPlan, error)
	SetMessPlanApproval(ctx context.Context, id int, approved bool) (*MessPlan, error)
	DeleteMessPlan(ctx context.Context, id int) error
}
