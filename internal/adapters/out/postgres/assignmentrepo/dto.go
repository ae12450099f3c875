// Package assignmentrepo provides data transfer objects and mapping functions
// for restaurant assignment persistence. Assignment rows carry the status
// column every conditional write races on, so the mapping keeps it as the
// wire-format string used in WHERE clauses.
package assignmentrepo

import (
	"time"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment aggregates.
type AssignmentDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index;not null"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index;not null"`
	Status       string    `gorm:"type:text;index;not null"`

	AssignedAt    time.Time `gorm:"not null"`
	ExpiresAt     time.Time `gorm:"not null"`
	RespondedAt   *time.Time
	ResponseNotes string `gorm:"type:text"`
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:            aggregate.ID().Bytes(),
		OrderID:       aggregate.OrderID().Bytes(),
		RestaurantID:  aggregate.RestaurantID().Bytes(),
		Status:        aggregate.Status().String(),
		AssignedAt:    aggregate.AssignedAt(),
		ExpiresAt:     aggregate.ExpiresAt(),
		RespondedAt:   aggregate.RespondedAt(),
		ResponseNotes: aggregate.ResponseNotes(),
	}
}

func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		restaurantID,
		status,
		dto.AssignedAt,
		dto.ExpiresAt,
		dto.RespondedAt,
		dto.ResponseNotes,
	)
}
