package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
//
// The single-winner guarantee lives here: UpdateStatusIf and
// CancelSiblings are conditional UPDATEs guarded on the row still being
// in the expected status, so concurrent responders race on the database
// row and exactly one conditional write lands.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing assignment to the database.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForOrder retrieves every assignment of the order, oldest first.
func (r *GormAssignmentRepository) GetAllForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Order("assigned_at").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllForOrderInStatus retrieves the order's assignments currently in
// the given status, oldest first.
func (r *GormAssignmentRepository) GetAllForOrderInStatus(
	ctx context.Context,
	orderID kernel.UUID,
	status assignment.Status,
) ([]*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Order("assigned_at").
		Find(&dtos, "order_id = ? AND status = ?", orderID.Bytes(), status.String()).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// UpdateStatusIf flips the assignment from one status to another only
// when the row is still in the expected status. Returns whether the
// flip landed; false means a concurrent writer resolved the row first.
func (r *GormAssignmentRepository) UpdateStatusIf(
	ctx context.Context,
	id kernel.UUID,
	from assignment.Status,
	to assignment.Status,
	respondedAt time.Time,
	notes string,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), from.String()).
		Updates(map[string]any{
			"status":         to.String(),
			"responded_at":   respondedAt,
			"response_notes": notes,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CancelSiblings cancels every still-pending assignment of the order
// except the winner's, returning the number of rows swept. Rows that
// already resolved keep their status.
func (r *GormAssignmentRepository) CancelSiblings(
	ctx context.Context,
	orderID kernel.UUID,
	winnerID kernel.UUID,
	notes string,
) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}
	if err := winnerID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("order_id = ? AND id != ? AND status = ?",
			orderID.Bytes(), winnerID.Bytes(), assignment.Pending.String()).
		Updates(map[string]any{
			"status":         assignment.Cancelled.String(),
			"responded_at":   time.Now(),
			"response_notes": notes,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func toDomainSlice(dtos []AssignmentDTO) ([]*assignment.Assignment, error) {
	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}
