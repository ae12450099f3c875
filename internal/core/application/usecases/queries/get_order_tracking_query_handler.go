package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler assembles the unified tracking view from
// the database. Uses direct SQL queries for read performance in the
// CQRS pattern; the write-side aggregates are never loaded.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking view queries.
// Requires a GORM database connection for query execution.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle executes the query to retrieve the order's tracking view.
// Returns the order's current state plus its full status history,
// newest entry first.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	history, err := h.loadHistory(ctx, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h GetOrderTrackingQueryHandler) loadOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (GetOrderTrackingQueryResponse, error) {
	var response GetOrderTrackingQueryResponse
	var id uuid.UUID
	var restaurantID *uuid.UUID
	var assignmentSource sql.NullString

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			restaurant_id,
			assignment_source,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	err := row.Scan(
		&id,
		&response.Status,
		&restaurantID,
		&assignmentSource,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return response, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return response, err
	}

	response.OrderID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return response, err
	}

	if restaurantID != nil {
		rID, idErr := kernel.UUIDFromBytes((*restaurantID)[:])
		if idErr != nil {
			return response, idErr
		}
		response.RestaurantID = &rID
	}
	response.AssignmentSource = assignmentSource.String

	return response, nil
}

func (h GetOrderTrackingQueryHandler) loadHistory(
	ctx context.Context,
	orderID kernel.UUID,
) ([]OrderHistoryEntryResponse, error) {
	entries := make([]OrderHistoryEntryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			previous_status,
			restaurant_id,
			restaurant_name,
			changed_by_type,
			changed_by_id,
			notes,
			details,
			created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at DESC
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry OrderHistoryEntryResponse
		var id uuid.UUID
		var previousStatus sql.NullString
		var restaurantID *uuid.UUID
		var restaurantName sql.NullString
		var changedByID *uuid.UUID
		var notes sql.NullString
		var details []byte
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&entry.Status,
			&previousStatus,
			&restaurantID,
			&restaurantName,
			&entry.ChangedByType,
			&changedByID,
			&notes,
			&details,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		if previousStatus.Valid {
			prev := previousStatus.String
			entry.PreviousStatus = &prev
		}
		if restaurantID != nil {
			rID, idErr := kernel.UUIDFromBytes((*restaurantID)[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.RestaurantID = &rID
		}
		if restaurantName.Valid {
			name := restaurantName.String
			entry.RestaurantName = &name
		}
		if changedByID != nil {
			cID, idErr := kernel.UUIDFromBytes((*changedByID)[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.ChangedByID = &cID
		}
		entry.Notes = notes.String
		entry.CreatedAt = createdAt

		if len(details) > 0 {
			if err = json.Unmarshal(details, &entry.Details); err != nil {
				return nil, err
			}
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
