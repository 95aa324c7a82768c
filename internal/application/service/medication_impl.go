package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicationService struct {
	medicationRepo repository.MedicationRepository
	reminderSvc    ReminderService
	log            logger.Logger
}

// NewMedicationService creates a new instance of MedicationService implementation.
func NewMedicationService(medicationRepo repository.MedicationRepository, reminderSvc ReminderService, log logger.Logger) MedicationService {
	return &medicationService{
		medicationRepo: medicationRepo,
		reminderSvc:    reminderSvc,
		log:            log,
	}
}

func validateMedication(req dto.MedicationRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", appErrors.ErrInvalidMedication)
	}
	if req.CurrentSupply < 0 || req.RefillAt < 0 {
		return fmt.Errorf("%w: supply and refill threshold must not be negative", appErrors.ErrInvalidMedication)
	}
	for _, tod := range req.Times {
		if _, _, err := ParseTimeOfDay(tod); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and stores a new medication, then schedules its reminders.
func (s *medicationService) Create(ctx context.Context, req dto.MedicationRequest) (*entity.Medication, error) {
	if err := validateMedication(req); err != nil {
		return nil, err
	}
	medication := &entity.Medication{ID: uuid.NewString()}
	req.Apply(medication)

	if err := s.medicationRepo.Create(ctx, medication); err != nil {
		s.log.Error(fmt.Sprintf("Failed to create medication %s", medication.Name), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.reminderSvc.UpdateMedicationReminders(ctx, medication)
	s.log.Info(fmt.Sprintf("Created medication %s (%s)", medication.ID, medication.Name))
	return medication, nil
}

// Update replaces a medication's fields and reschedules its reminders.
func (s *medicationService) Update(ctx context.Context, id string, req dto.MedicationRequest) (*entity.Medication, error) {
	if err := validateMedication(req); err != nil {
		return nil, err
	}
	medication, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(medication)

	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		s.log.Error(fmt.Sprintf("Failed to update medication %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.reminderSvc.UpdateMedicationReminders(ctx, medication)
	return medication, nil
}

// Delete cancels a medication's reminders and removes it.
func (s *medicationService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	s.reminderSvc.CancelMedicationReminders(ctx, id)

	if err := s.medicationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrMedicationNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to delete medication %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Deleted medication %s", id))
	return nil
}

// Get retrieves a medication by ID.
func (s *medicationService) Get(ctx context.Context, id string) (*entity.Medication, error) {
	medication, err := s.medicationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrMedicationNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get medication %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return medication, nil
}

// List retrieves all medications.
func (s *medicationService) List(ctx context.Context) ([]*entity.Medication, error) {
	medications, err := s.medicationRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list medications", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return medications, nil
}

// RecordDose decrements the supply by one, floored at zero, and refreshes reminders.
func (s *medicationService) RecordDose(ctx context.Context, id string) (*entity.Medication, error) {
	medication, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if medication.CurrentSupply > 0 {
		medication.CurrentSupply--
	}
	if err := s.medicationRepo.Update(ctx, medication); err != nil {
		s.log.Error(fmt.Sprintf("Failed to record dose for medication %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.reminderSvc.UpdateMedicationReminders(ctx, medication)
	s.log.Debug(fmt.Sprintf("Recorded dose for %s, supply now %d", medication.Name, medication.CurrentSupply))
	return medication, nil
}

// ResyncAll refreshes reminders for every stored medication.
func (s *medicationService) ResyncAll(ctx context.Context) error {
	medications, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, medication := range medications {
		s.reminderSvc.UpdateMedicationReminders(ctx, medication)
	}
	s.log.Info(fmt.Sprintf("Resynced reminders for %d medications.", len(medications)))
	return nil
}
