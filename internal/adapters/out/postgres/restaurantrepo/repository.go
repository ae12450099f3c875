// Package restaurantrepo resolves restaurant display metadata used to
// enrich audit trail entries.
package restaurantrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantDTO represents the database structure for restaurant metadata.
type RestaurantDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName specifies the database table name for restaurant entities.
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// GormRestaurantDirectory implements RestaurantDirectory using GORM.
type GormRestaurantDirectory struct {
	db *gorm.DB
}

// NewGormRestaurantDirectory creates a new GORM restaurant directory.
func NewGormRestaurantDirectory(db *gorm.DB) *GormRestaurantDirectory {
	return &GormRestaurantDirectory{db: db}
}

// Add registers a restaurant's display name.
func (r *GormRestaurantDirectory) Add(ctx context.Context, id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	dto := RestaurantDTO{ID: id.Bytes(), Name: name, IsActive: true}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetName retrieves the restaurant's display name.
func (r *GormRestaurantDirectory) GetName(ctx context.Context, id kernel.UUID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return "", err
	}

	return dto.Name, nil
}
