// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status column stores the wire-format string so the read side can
// filter and render it without decoding, and the per-phase timestamp
// columns stay null until the order first reaches the phase.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status           string     `gorm:"type:text;index;not null"`
	RestaurantID     *uuid.UUID `gorm:"type:uuid;index"`
	AssignmentSource string     `gorm:"type:text"`

	AssignedAt           *time.Time
	AcceptedAt           *time.Time
	PreparationStartedAt *time.Time
	ReadyAt              *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var restaurantID *uuid.UUID
	if id := aggregate.RestaurantID(); id != nil {
		raw := id.Bytes()
		restaurantID = &raw
	}

	stamps := aggregate.Timestamps()

	return OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		Status:               aggregate.Status().String(),
		RestaurantID:         restaurantID,
		AssignmentSource:     aggregate.AssignmentSource(),
		AssignedAt:           stamps.AssignedAt,
		AcceptedAt:           stamps.AcceptedAt,
		PreparationStartedAt: stamps.PreparationStartedAt,
		ReadyAt:              stamps.ReadyAt,
		PickedUpAt:           stamps.PickedUpAt,
		DeliveredAt:          stamps.DeliveredAt,
		CancelledAt:          stamps.CancelledAt,
		CreatedAt:            aggregate.CreatedAt(),
		UpdatedAt:            aggregate.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var restaurantID *kernel.UUID
	if dto.RestaurantID != nil {
		rID, restaurantErr := kernel.UUIDFromBytes((*dto.RestaurantID)[:])
		if restaurantErr != nil {
			return nil, restaurantErr
		}

		restaurantID = &rID
	}

	return order.RestoreOrder(
		id,
		status,
		restaurantID,
		dto.AssignmentSource,
		order.Timestamps{
			AssignedAt:           dto.AssignedAt,
			AcceptedAt:           dto.AcceptedAt,
			PreparationStartedAt: dto.PreparationStartedAt,
			ReadyAt:              dto.ReadyAt,
			PickedUpAt:           dto.PickedUpAt,
			DeliveredAt:          dto.DeliveredAt,
			CancelledAt:          dto.CancelledAt,
		},
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
