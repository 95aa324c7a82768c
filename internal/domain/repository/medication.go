package repository

import (
	"context"
	"medreminder/internal/domain/entity"
)

// MedicationRepository defines the interface for medication data operations.
type MedicationRepository interface {
	// FindByID retrieves a medication by its ID.
	FindByID(ctx context.Context, id string) (*entity.Medication, error)
	// FindAll retrieves all medications ordered by creation time.
	FindAll(ctx context.Context) ([]*entity.Medication, error)
	// Create stores a new medication.
	Create(ctx context.Context, medication *entity.Medication) error
	// Update saves all fields of an existing medication.
	Update(ctx context.Context, medication *entity.Medication) error
	// Delete deletes a medication by its ID.
	Delete(ctx context.Context, id string) error
}
