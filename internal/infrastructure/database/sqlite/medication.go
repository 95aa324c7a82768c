package sqlite

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type medicationRepository struct {
	db *gorm.DB
}

// NewMedicationRepository creates a new instance of MedicationRepository.
func NewMedicationRepository(db *gorm.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

// FindByID retrieves a medication by its ID.
func (r *medicationRepository) FindByID(ctx context.Context, id string) (*entity.Medication, error) {
	var medication entity.Medication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&medication).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("medication with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find medication %s: %w", id, err)
	}
	return &medication, nil
}

// FindAll retrieves all medications ordered by creation time.
func (r *medicationRepository) FindAll(ctx context.Context) ([]*entity.Medication, error) {
	var medications []*entity.Medication
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("failed to find medications: %w", err)
	}
	return medications, nil
}

// Create stores a new medication.
func (r *medicationRepository) Create(ctx context.Context, medication *entity.Medication) error {
	if err := r.db.WithContext(ctx).Create(medication).Error; err != nil {
		return fmt.Errorf("failed to create medication %s: %w", medication.ID, err)
	}
	return nil
}

// Update saves all fields of an existing medication, including zero values.
func (r *medicationRepository) Update(ctx context.Context, medication *entity.Medication) error {
	if err := r.db.WithContext(ctx).Save(medication).Error; err != nil {
		return fmt.Errorf("failed to update medication %s: %w", medication.ID, err)
	}
	return nil
}

// Delete deletes a medication by its ID.
func (r *medicationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Medication{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete medication %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("medication with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
