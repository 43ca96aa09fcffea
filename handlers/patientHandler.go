package handlers

import (
	"errors"

	"clinicdesk/middlewares"
	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/services"
	"clinicdesk/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

type patientPayload struct {
	models.Patient
	PlainPassword string `json:"password"`
}

// RegisterPatient handles public patient signup.
func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var payload patientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.Register(c.Request.Context(), &payload.Patient, payload.PlainPassword); err != nil {
		if errors.Is(err, repositories.ErrPatientExists) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(201, payload.Patient)
}

// GetPatientByID returns a patient record. Patients can only read their own.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patientID := c.Param("patient_id")
	if !mayActForPatient(c, patientID) {
		c.JSON(403, gin.H{"error": "Forbidden: insufficient privileges"})
		return
	}

	patient, err := h.service.GetByID(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if patient == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(200, patient)
}

// GetPatientAppointments lists a patient's appointments, optionally narrowed
// by condition ("past"/"future") and a partial doctor name.
func (h *PatientHandler) GetPatientAppointments(c *gin.Context) {
	patientID := c.Param("patient_id")
	if !mayActForPatient(c, patientID) {
		c.JSON(403, gin.H{"error": "Forbidden: insufficient privileges"})
		return
	}

	condition := c.Query("condition")
	doctorName := c.Query("doctor_name")

	appointments, err := h.service.Appointments(c.Request.Context(), patientID, condition, doctorName)
	if err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, appointments)
}

// mayActForPatient reports whether the requester may access the given
// patient's records. Staff always can, a patient only their own.
func mayActForPatient(c *gin.Context, patientID string) bool {
	if requesterRole(c) != utils.RolePatient {
		return true
	}
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	return err == nil && userID == patientID
}
