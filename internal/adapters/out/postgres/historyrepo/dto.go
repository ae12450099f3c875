// Package historyrepo provides persistence for the append-only audit
// trails: order-level status history and assignment-level events.
//
// Idempotent entries carry their token in a dedicated column backed by
// a partial unique index on (order_id, status, idempotency_key), so a
// duplicate append is rejected by the database itself rather than by a
// read-then-write check.
package historyrepo

import (
	"time"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for order status history entries.
type EntryDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_history_idem,where:idempotency_key <> '';not null"`
	Status         string         `gorm:"type:text;uniqueIndex:idx_history_idem;not null"`
	PreviousStatus *string        `gorm:"type:text"`
	RestaurantID   *uuid.UUID     `gorm:"type:uuid"`
	RestaurantName *string        `gorm:"type:text"`
	ChangedByType  string         `gorm:"type:text;not null"`
	ChangedByID    *uuid.UUID     `gorm:"type:uuid"`
	Notes          string         `gorm:"type:text"`
	Details        map[string]any `gorm:"type:jsonb;serializer:json"`
	ExpiredAt      *time.Time
	Visibility     bool           `gorm:"not null;default:true"`
	IdempotencyKey string         `gorm:"type:text;uniqueIndex:idx_history_idem;not null;default:''"`
	CreatedAt      time.Time      `gorm:"index;not null"`
}

// TableName specifies the database table name for history entries.
func (EntryDTO) TableName() string {
	return "order_status_history"
}

// AssignmentEventDTO represents the database structure for assignment-level events.
type AssignmentEventDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AssignmentID uuid.UUID      `gorm:"type:uuid;index;not null"`
	OrderID      uuid.UUID      `gorm:"type:uuid;index;not null"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null"`
	Status       string         `gorm:"type:text;not null"`
	Notes        string         `gorm:"type:text"`
	Details      map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time      `gorm:"not null"`
}

// TableName specifies the database table name for assignment events.
func (AssignmentEventDTO) TableName() string {
	return "assignment_status_history"
}

func entryFromDomain(entry *history.Entry) EntryDTO {
	var changedByID *uuid.UUID
	if id := entry.ChangedByID(); id != nil {
		raw := id.Bytes()
		changedByID = &raw
	}

	var restaurantID *uuid.UUID
	if id := entry.RestaurantID(); id != nil {
		raw := id.Bytes()
		restaurantID = &raw
	}

	return EntryDTO{
		ID:             entry.ID().Bytes(),
		OrderID:        entry.OrderID().Bytes(),
		Status:         entry.Status(),
		PreviousStatus: entry.PreviousStatus(),
		RestaurantID:   restaurantID,
		RestaurantName: entry.RestaurantName(),
		ChangedByType:  entry.ChangedByType(),
		ChangedByID:    changedByID,
		Notes:          entry.Notes(),
		Details:        entry.Details(),
		ExpiredAt:      entry.ExpiredAt(),
		Visibility:     entry.Visible(),
		IdempotencyKey: entry.IdempotencyKey(),
		CreatedAt:      entry.CreatedAt(),
	}
}

func entryToDomain(dto EntryDTO) (*history.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var changedByID *kernel.UUID
	if dto.ChangedByID != nil {
		cID, changedErr := kernel.UUIDFromBytes((*dto.ChangedByID)[:])
		if changedErr != nil {
			return nil, changedErr
		}

		changedByID = &cID
	}

	var restaurantID *kernel.UUID
	if dto.RestaurantID != nil {
		rID, restaurantErr := kernel.UUIDFromBytes((*dto.RestaurantID)[:])
		if restaurantErr != nil {
			return nil, restaurantErr
		}

		restaurantID = &rID
	}

	return history.RestoreEntry(
		id,
		orderID,
		dto.Status,
		dto.PreviousStatus,
		dto.ChangedByType,
		changedByID,
		dto.Notes,
		dto.Details,
		history.Enrichment{
			RestaurantID:   restaurantID,
			RestaurantName: dto.RestaurantName,
			ExpiredAt:      dto.ExpiredAt,
			Hidden:         !dto.Visibility,
		},
		dto.CreatedAt,
	)
}

func eventFromDomain(event history.AssignmentEvent) AssignmentEventDTO {
	return AssignmentEventDTO{
		ID:           kernel.NewUUID().Bytes(),
		AssignmentID: event.AssignmentID().Bytes(),
		OrderID:      event.OrderID().Bytes(),
		RestaurantID: event.RestaurantID().Bytes(),
		Status:       event.Status(),
		Notes:        event.Notes(),
		Details:      event.Details(),
		CreatedAt:    event.CreatedAt(),
	}
}
