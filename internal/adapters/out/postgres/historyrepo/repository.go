package historyrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM.
//
// Requires the connection to be opened with TranslateError enabled so
// unique violations surface as gorm.ErrDuplicatedKey.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append persists one audit entry. An insert rejected by the
// idempotency unique index means the entry was already recorded and
// succeeds as a no-op.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	return nil
}

// ListForOrder retrieves the order's audit entries, oldest first.
func (r *GormHistoryRepository) ListForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*history.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*history.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := entryToDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// LatestForOrder retrieves the order's most recent audit entry.
func (r *GormHistoryRepository) LatestForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*history.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("history entry", orderID.String())
		}
		return nil, err
	}

	return entryToDomain(dto)
}

// HasIdempotencyKey reports whether an entry with the given order,
// status, and idempotency token already exists.
func (r *GormHistoryRepository) HasIdempotencyKey(
	ctx context.Context,
	orderID kernel.UUID,
	status string,
	key string,
) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("order_id = ? AND status = ? AND idempotency_key = ?", orderID.Bytes(), status, key).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// AppendAssignmentEvent persists one assignment-level audit event.
func (r *GormHistoryRepository) AppendAssignmentEvent(
	ctx context.Context,
	event history.AssignmentEvent,
) error {
	dto := eventFromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}
