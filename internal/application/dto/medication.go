package dto

import (
	"medreminder/internal/domain/entity"
	"time"
)

// MedicationRequest is the DTO for creating or replacing a medication.
type MedicationRequest struct {
	Name            string   `json:"name"`
	Dosage          string   `json:"dosage"`
	Times           []string `json:"times"`
	ReminderEnabled bool     `json:"reminderEnabled"`
	RefillReminder  bool     `json:"refillReminder"`
	CurrentSupply   int      `json:"currentSupply"`
	RefillAt        int      `json:"refillAt"`
}

// Apply copies the request fields onto m.
func (r MedicationRequest) Apply(m *entity.Medication) {
	m.Name = r.Name
	m.Dosage = r.Dosage
	m.Times = append([]string(nil), r.Times...)
	m.ReminderEnabled = r.ReminderEnabled
	m.RefillReminder = r.RefillReminder
	m.CurrentSupply = r.CurrentSupply
	m.RefillAt = r.RefillAt
}

// MedicationResponse is the DTO for sending medication information to the client.
type MedicationResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Times           []string  `json:"times"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	RefillReminder  bool      `json:"refillReminder"`
	CurrentSupply   int       `json:"currentSupply"`
	RefillAt        int       `json:"refillAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToMedicationResponse converts an entity.Medication to a MedicationResponse DTO.
func ToMedicationResponse(m *entity.Medication) MedicationResponse {
	times := m.Times
	if times == nil {
		times = []string{}
	}
	return MedicationResponse{
		ID:              m.ID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		Times:           times,
		ReminderEnabled: m.ReminderEnabled,
		RefillReminder:  m.RefillReminder,
		CurrentSupply:   m.CurrentSupply,
		RefillAt:        m.RefillAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToMedicationResponseList converts a slice of entity.Medication to response DTOs.
func ToMedicationResponseList(medications []*entity.Medication) []MedicationResponse {
	list := make([]MedicationResponse, len(medications))
	for i, m := range medications {
		list[i] = ToMedicationResponse(m)
	}
	return list
}
