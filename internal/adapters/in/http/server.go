// Package http exposes the order coordination surface over echo:
// restaurant responses, broadcasts, status updates, forced expiry, the
// tracking view, and a restaurant's open offers.
package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	respondHandler         commands.RespondToAssignmentCommandHandler
	broadcastHandler       commands.BroadcastOrderCommandHandler
	updateOrderStatus      commands.UpdateOrderStatusCommandHandler
	updateAssignmentStatus commands.UpdateAssignmentStatusCommandHandler
	expireAssignments      commands.ExpireAssignmentsCommandHandler
	orderTrackingHandler   queries.GetOrderTrackingQueryHandler
	pendingOffersHandler   queries.GetPendingAssignmentsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	respondHandler commands.RespondToAssignmentCommandHandler,
	broadcastHandler commands.BroadcastOrderCommandHandler,
	updateOrderStatus commands.UpdateOrderStatusCommandHandler,
	updateAssignmentStatus commands.UpdateAssignmentStatusCommandHandler,
	expireAssignments commands.ExpireAssignmentsCommandHandler,
	orderTrackingHandler queries.GetOrderTrackingQueryHandler,
	pendingOffersHandler queries.GetPendingAssignmentsQueryHandler,
) *Server {
	return &Server{
		respondHandler:         respondHandler,
		broadcastHandler:       broadcastHandler,
		updateOrderStatus:      updateOrderStatus,
		updateAssignmentStatus: updateAssignmentStatus,
		expireAssignments:      expireAssignments,
		orderTrackingHandler:   orderTrackingHandler,
		pendingOffersHandler:   pendingOffersHandler,
	}
}

// RegisterRoutes attaches the API surface to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders/:orderID/respond", s.RespondToAssignment)
	api.POST("/orders/:orderID/broadcast", s.BroadcastOrder)
	api.POST("/orders/:orderID/status", s.UpdateOrderStatus)
	api.POST("/orders/:orderID/expire-assignments", s.ExpireAssignments)
	api.GET("/orders/:orderID/tracking", s.GetOrderTracking)
	api.POST("/assignments/:assignmentID/status", s.UpdateAssignmentStatus)
	api.GET("/restaurants/:restaurantID/assignments/pending", s.GetPendingAssignments)
}

// Error is the JSON error envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type respondRequest struct {
	RestaurantID string  `json:"restaurant_id"`
	AssignmentID string  `json:"assignment_id"`
	Action       string  `json:"action"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Notes        string  `json:"notes"`
}

// RespondToAssignment handles POST /api/v1/orders/:orderID/respond.
func (s *Server) RespondToAssignment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req respondRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}
	assignmentID, err := kernel.UUIDFromString(req.AssignmentID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment id")
	}

	cmd, err := commands.NewRespondToAssignmentCommand(
		orderID, restaurantID, assignmentID, req.Action, req.Latitude, req.Longitude, req.Notes)
	if err != nil {
		return badRequest(ctx, "Invalid response data: "+err.Error())
	}

	if err = s.respondHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}

type broadcastRequest struct {
	RestaurantIDs []string `json:"restaurant_ids"`
	Source        string   `json:"source"`
}

// BroadcastOrder handles POST /api/v1/orders/:orderID/broadcast.
func (s *Server) BroadcastOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req broadcastRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	restaurantIDs := make([]kernel.UUID, 0, len(req.RestaurantIDs))
	for _, raw := range req.RestaurantIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid restaurant id: "+raw)
		}
		restaurantIDs = append(restaurantIDs, id)
	}

	cmd, err := commands.NewBroadcastOrderCommand(orderID, restaurantIDs, req.Source)
	if err != nil {
		return badRequest(ctx, "Invalid broadcast data: "+err.Error())
	}

	if err = s.broadcastHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"candidates": len(restaurantIDs),
	})
}

type updateOrderStatusRequest struct {
	Status           string         `json:"status"`
	RestaurantID     string         `json:"restaurant_id"`
	AssignmentSource string         `json:"assignment_source"`
	Metadata         map[string]any `json:"metadata"`
	ActorType        string         `json:"actor_type"`
	ActorID          string         `json:"actor_id"`
}

// UpdateOrderStatus handles POST /api/v1/orders/:orderID/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req updateOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+req.Status)
	}

	var restaurantID *kernel.UUID
	if req.RestaurantID != "" {
		id, idErr := kernel.UUIDFromString(req.RestaurantID)
		if idErr != nil {
			return badRequest(ctx, "Invalid restaurant id")
		}
		restaurantID = &id
	}

	var actorID *kernel.UUID
	if req.ActorID != "" {
		id, idErr := kernel.UUIDFromString(req.ActorID)
		if idErr != nil {
			return badRequest(ctx, "Invalid actor id")
		}
		actorID = &id
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(
		orderID, status, restaurantID, req.AssignmentSource, req.Metadata,
		actorID, order.ActorKindFromString(req.ActorType))
	if err != nil {
		return badRequest(ctx, "Invalid status data: "+err.Error())
	}

	if err = s.updateOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"success": true, "status": status.String()})
}

type updateAssignmentStatusRequest struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// UpdateAssignmentStatus handles POST /api/v1/assignments/:assignmentID/status.
func (s *Server) UpdateAssignmentStatus(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentID")
	if err != nil {
		return badRequest(ctx, "Invalid assignment id")
	}

	var req updateAssignmentStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}

	cmd, err := commands.NewUpdateAssignmentStatusCommand(
		assignmentID, orderID, restaurantID, req.Status, req.Notes)
	if err != nil {
		return badRequest(ctx, "Invalid status data: "+err.Error())
	}

	if err = s.updateAssignmentStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}

// ExpireAssignments handles POST /api/v1/orders/:orderID/expire-assignments.
func (s *Server) ExpireAssignments(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewExpireAssignmentsCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	expired, err := s.expireAssignments.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"success": true, "expired": expired})
}

// GetOrderTracking handles GET /api/v1/orders/:orderID/tracking.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	tracking, err := s.orderTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trackingResponse(tracking))
}

// GetPendingAssignments handles GET /api/v1/restaurants/:restaurantID/assignments/pending.
func (s *Server) GetPendingAssignments(ctx echo.Context) error {
	restaurantID, err := pathUUID(ctx, "restaurantID")
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}

	query, err := queries.NewGetPendingAssignmentsQuery(restaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}

	offers, err := s.pendingOffersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]map[string]any, 0, len(offers))
	for _, offer := range offers {
		response = append(response, map[string]any{
			"assignment_id": offer.AssignmentID.String(),
			"order_id":      offer.OrderID.String(),
			"assigned_at":   offer.AssignedAt,
			"expires_at":    offer.ExpiresAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

func trackingResponse(tracking queries.GetOrderTrackingQueryResponse) map[string]any {
	history := make([]map[string]any, 0, len(tracking.History))
	for _, entry := range tracking.History {
		item := map[string]any{
			"id":              entry.ID.String(),
			"status":          entry.Status,
			"previous_status": entry.PreviousStatus,
			"changed_by_type": entry.ChangedByType,
			"notes":           entry.Notes,
			"details":         entry.Details,
			"created_at":      entry.CreatedAt,
		}
		if entry.RestaurantID != nil {
			item["restaurant_id"] = entry.RestaurantID.String()
		}
		if entry.RestaurantName != nil {
			item["restaurant_name"] = *entry.RestaurantName
		}
		if entry.ChangedByID != nil {
			item["changed_by_id"] = entry.ChangedByID.String()
		}
		history = append(history, item)
	}

	response := map[string]any{
		"order_id":          tracking.OrderID.String(),
		"status":            tracking.Status,
		"assignment_source": tracking.AssignmentSource,
		"created_at":        tracking.CreatedAt,
		"updated_at":        tracking.UpdatedAt,
		"history":           history,
	}
	if tracking.RestaurantID != nil {
		response["restaurant_id"] = tracking.RestaurantID.String()
	}

	return response
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors to HTTP responses: lost races to
// 409, missing objects to 404, invalid values to 400, the rest to 500.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, commands.ErrAssignmentAlreadyClaimed),
		errors.Is(err, commands.ErrAssignmentAlreadyResolved):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
