package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingAssignmentsQueryHandler retrieves a restaurant's open
// offers from the database. Rows whose window already lapsed are
// filtered out even before the expiry sweep flips them, so the
// restaurant never sees an offer it can no longer answer.
type GetPendingAssignmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingAssignmentsQueryHandler creates a handler for open offer queries.
// Requires a GORM database connection for query execution.
func NewGetPendingAssignmentsQueryHandler(db *gorm.DB) GetPendingAssignmentsQueryHandler {
	return GetPendingAssignmentsQueryHandler{db: db}
}

// Handle executes the query to retrieve the restaurant's open offers,
// oldest first.
func (h GetPendingAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingAssignmentsQuery,
) ([]GetPendingAssignmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	offers := make([]GetPendingAssignmentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			assigned_at,
			expires_at
		FROM assignments
		WHERE restaurant_id = ?
		  AND status = ?
		  AND expires_at > ?
		ORDER BY assigned_at
	`, query.RestaurantID().Bytes(), assignment.Pending.String(), time.Now()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var offer GetPendingAssignmentsQueryResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&offer.AssignedAt,
			&offer.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}

		offer.AssignmentID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		offer.OrderID, err = kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}

		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
