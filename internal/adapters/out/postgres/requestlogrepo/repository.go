// Package requestlogrepo persists outbound notification attempt logs.
// Logs are diagnostics, not state: the write path treats a failed
// insert as ignorable and the table has no consumers on the hot path.
package requestlogrepo

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestLogDTO represents the database structure for notification attempt logs.
type RequestLogDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID      `gorm:"type:uuid;index;not null"`
	Action         string         `gorm:"type:text;not null"`
	IdempotencyKey string         `gorm:"type:text;not null"`
	Payload        map[string]any `gorm:"type:jsonb;serializer:json"`
	StatusCode     int
	Error          string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the database table name for request logs.
func (RequestLogDTO) TableName() string {
	return "webhook_logs"
}

// GormRequestLogRepository implements RequestLogRepository using GORM.
type GormRequestLogRepository struct {
	db *gorm.DB
}

// NewGormRequestLogRepository creates a new GORM request log repository.
func NewGormRequestLogRepository(db *gorm.DB) *GormRequestLogRepository {
	return &GormRequestLogRepository{db: db}
}

// Add persists one notification attempt record.
func (r *GormRequestLogRepository) Add(ctx context.Context, log ports.RequestLog) error {
	if err := log.ID.Validate(); err != nil {
		return err
	}
	if err := log.OrderID.Validate(); err != nil {
		return err
	}

	dto := RequestLogDTO{
		ID:             log.ID.Bytes(),
		OrderID:        log.OrderID.Bytes(),
		Action:         log.Action,
		IdempotencyKey: log.IdempotencyKey,
		Payload:        log.Payload,
		StatusCode:     log.StatusCode,
		Error:          log.Error,
		CreatedAt:      log.CreatedAt,
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListForOrder retrieves the order's notification attempts, newest first.
func (r *GormRequestLogRepository) ListForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]ports.RequestLog, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RequestLogDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	logs := make([]ports.RequestLog, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		oID, oErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if oErr != nil {
			return nil, oErr
		}

		logs = append(logs, ports.RequestLog{
			ID:             id,
			OrderID:        oID,
			Action:         dto.Action,
			IdempotencyKey: dto.IdempotencyKey,
			Payload:        dto.Payload,
			StatusCode:     dto.StatusCode,
			Error:          dto.Error,
			CreatedAt:      dto.CreatedAt,
		})
	}

	return logs, nil
}
