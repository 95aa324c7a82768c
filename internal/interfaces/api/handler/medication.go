package handler

import (
	"fmt"
	"medreminder/internal/application/dto"
	"medreminder/internal/application/service"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MedicationHandler serves the medication endpoints.
type MedicationHandler struct {
	medicationService service.MedicationService
	log               logger.Logger
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(medicationService service.MedicationService, log logger.Logger) *MedicationHandler {
	return &MedicationHandler{medicationService: medicationService, log: log}
}

func bindMedication(c echo.Context) (dto.MedicationRequest, error) {
	var req dto.MedicationRequest
	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: malformed request body", appErrors.ErrInvalidMedication)
	}
	return req, nil
}

// fail logs unexpected errors before writing the error response.
func (h *MedicationHandler) fail(c echo.Context, op string, err error) error {
	if statusFor(err) == http.StatusInternalServerError {
		h.log.Error(fmt.Sprintf("Failed to %s", op), err)
	}
	return respondError(c, err)
}

// Create handles POST /medications.
func (h *MedicationHandler) Create(c echo.Context) error {
	req, err := bindMedication(c)
	if err != nil {
		return h.fail(c, "create medication", err)
	}
	medication, err := h.medicationService.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create medication", err)
	}
	return c.JSON(http.StatusCreated, dto.ToMedicationResponse(medication))
}

// List handles GET /medications.
func (h *MedicationHandler) List(c echo.Context) error {
	medications, err := h.medicationService.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "list medications", err)
	}
	return c.JSON(http.StatusOK, dto.ToMedicationResponseList(medications))
}

// Get handles GET /medications/:id.
func (h *MedicationHandler) Get(c echo.Context) error {
	medication, err := h.medicationService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "get medication", err)
	}
	return c.JSON(http.StatusOK, dto.ToMedicationResponse(medication))
}

// Update handles PUT /medications/:id.
func (h *MedicationHandler) Update(c echo.Context) error {
	req, err := bindMedication(c)
	if err != nil {
		return h.fail(c, "update medication", err)
	}
	medication, err := h.medicationService.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.fail(c, "update medication", err)
	}
	return c.JSON(http.StatusOK, dto.ToMedicationResponse(medication))
}

// Delete handles DELETE /medications/:id.
func (h *MedicationHandler) Delete(c echo.Context) error {
	if err := h.medicationService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, "delete medication", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordDose handles POST /medications/:id/doses.
func (h *MedicationHandler) RecordDose(c echo.Context) error {
	medication, err := h.medicationService.RecordDose(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "record dose", err)
	}
	return c.JSON(http.StatusOK, dto.ToMedicationResponse(medication))
}
