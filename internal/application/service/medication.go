package service

import (
	"context"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
)

// MedicationService manages medication records and keeps their reminders current.
type MedicationService interface {
	// Create validates and stores a new medication, then schedules its reminders.
	Create(ctx context.Context, req dto.MedicationRequest) (*entity.Medication, error)
	// Update replaces a medication's fields and reschedules its reminders.
	Update(ctx context.Context, id string, req dto.MedicationRequest) (*entity.Medication, error)
	// Delete cancels a medication's reminders and removes it.
	Delete(ctx context.Context, id string) error
	// Get retrieves a medication by ID.
	Get(ctx context.Context, id string) (*entity.Medication, error)
	// List retrieves all medications.
	List(ctx context.Context) ([]*entity.Medication, error)
	// RecordDose decrements the supply by one and refreshes reminders, which
	// raises a refill reminder once supply is low.
	RecordDose(ctx context.Context, id string) (*entity.Medication, error)
	// ResyncAll refreshes reminders for every stored medication.
	ResyncAll(ctx context.Context) error
}
