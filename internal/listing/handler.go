package listing

import (
	"net/http"
	"strconv"

	"roomnmeal/internal/api"
	"roomnmeal/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// CreateRoom godoc
// @Summary      Create room listing
// @Description  Owner-only: creates a room listing pending admin approval.
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRoomRequest  true  "Room payload"
// @Success      201      {object}  Room
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.repo.CreateRoom(c.Request.Context(), ownerID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary      List available rooms
// @Description  Returns approved, active room listings.
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Room
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.repo.ListApprovedRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// ListMyRooms godoc
// @Summary      List my room listings
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Room
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rooms/mine [get]
func (h *Handler) ListMyRooms(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	rooms, err := h.repo.ListRoomsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary      Get room by ID
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        roomID  path      int  true  "Room ID"
// @Success      200     {object}  Room
// @Failure      404     {object}  api.ErrorResponse
// @Router       /rooms/{roomID} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "roomID")
	if !ok {
		return
	}

	room, err := h.repo.GetRoomByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// UpdateRoom godoc
// @Summary      Update room listing
// @Description  Owner-only: price changes do not affect existing bookings.
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        roomID   path      int                true  "Room ID"
// @Param        request  body      UpdateRoomRequest  true  "Room payload"
// @Success      200      {object}  Room
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /rooms/{roomID} [put]
func (h *Handler) UpdateRoom(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := pathID(c, "roomID")
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	room, err := h.repo.GetRoomByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}
	if room.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not authorized to manage this room"})
		return
	}

	updated, err := h.repo.UpdateRoom(ctx, id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update room"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRoom godoc
// @Summary      Delete room listing
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        roomID  path      int  true  "Room ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /rooms/{roomID} [delete]
func (h *Handler) DeleteRoom(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := pathID(c, "roomID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	room, err := h.repo.GetRoomByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}
	if room.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not authorized to manage this room"})
		return
	}

	if err := h.repo.DeleteRoom(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Room deleted"})
}

// ApproveRoom godoc
// @Summary      Approve or reject room listing
// @Description  Admin-only moderation.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        roomID   path      int              true  "Room ID"
// @Param        request  body      ApprovalRequest  true  "Approval payload"
// @Success      200      {object}  Room
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/rooms/{roomID}/approval [patch]
func (h *Handler) ApproveRoom(c *gin.Context) {
	id, ok := pathID(c, "roomID")
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.repo.SetRoomApproval(c.Request.Context(), id, req.Approved)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// CreateMessPlan godoc
// @Summary      Create mess plan
// @Tags         mess
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMessPlanRequest  true  "Mess plan payload"
// @Success      201      {object}  MessPlan
// @Failure      400      {object}  api.ErrorResponse
// @Router       /mess-plans [post]
func (h *Handler) CreateMessPlan(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateMessPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	plan, err := h.repo.CreateMessPlan(c.Request.Context(), ownerID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create mess plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListMessPlans godoc
// @Summary      List available mess plans
// @Tags         mess
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   MessPlan
// @Failure      500  {object}  api.ErrorResponse
// @Router       /mess-plans [get]
func (h *Handler) ListMessPlans(c *gin.Context) {
	plans, err := h.repo.ListApprovedMessPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch mess plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// ListMyMessPlans godoc
// @Summary      List my mess plans
// @Tags         mess
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   MessPlan
// @Router       /mess-plans/mine [get]
func (h *Handler) ListMyMessPlans(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	plans, err := h.repo.ListMessPlansByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch mess plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetMessPlan godoc
// @Summary      Get mess plan by ID
// @Tags         mess
// @Security     BearerAuth
// @Produce      json
// @Param        planID  path      int  true  "Mess plan ID"
// @Success      200     {object}  MessPlan
// @Failure      404     {object}  api.ErrorResponse
// @Router       /mess-plans/{planID} [get]
func (h *Handler) GetMessPlan(c *gin.Context) {
	id, ok := pathID(c, "planID")
	if !ok {
		return
	}

	plan, err := h.repo.GetMessPlanByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Mess plan not found"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UpdateMessPlan godoc
// @Summary      Update mess plan
// @Tags         mess
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        planID   path      int                    true  "Mess plan ID"
// @Param        request  body      UpdateMessPlanRequest  true  "Mess plan payload"
// @Success      200      {object}  MessPlan
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /mess-plans/{planID} [put]
func (h *Handler) UpdateMessPlan(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := pathID(c, "planID")
	if !ok {
		return
	}

	var req UpdateMessPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	plan, err := h.repo.GetMessPlanByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Mess plan not found"})
		return
	}
	if plan.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not authorized to manage this mess plan"})
		return
	}

	updated, err := h.repo.UpdateMessPlan(ctx, id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update mess plan"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteMessPlan godoc
// @Summary      Delete mess plan
// @Tags         mess
// @Security     BearerAuth
// @Produce      json
// @Param        planID  path      int  true  "Mess plan ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /mess-plans/{planID} [delete]
func (h *Handler) DeleteMessPlan(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := pathID(c, "planID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	plan, err := h.repo.GetMessPlanByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Mess plan not found"})
		return
	}
	if plan.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not authorized to manage this mess plan"})
		return
	}

	if err := h.repo.DeleteMessPlan(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete mess plan"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Mess plan deleted"})
}

// ApproveMessPlan godoc
// @Summary      Approve or reject mess plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        planID   path      int              true  "Mess plan ID"
// @Param        request  body      ApprovalRequest  true  "Approval payload"
// @Success      200      {object}  MessPlan
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/mess-plans/{planID}/approval [patch]
func (h *Handler) ApproveMessPlan(c *gin.Context) {
	id, ok := pathID(c, "planID")
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	plan, err := h.repo.SetMessPlanApproval(c.Request.Context(), id, req.Approved)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Mess plan not found"})
		return
	}

	c.JSON(http.StatusOK, plan)
}
