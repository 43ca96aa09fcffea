package handlers

import (
	"clinicdesk/middlewares"
	"clinicdesk/models"
	"clinicdesk/services"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

// CreatePrescription records a prescription against an appointment. Only the
// doctor holding the appointment may write one.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var prescription models.Prescription
	if err := c.ShouldBindJSON(&prescription); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		c.JSON(401, gin.H{"error": "User not found in context"})
		return
	}

	if err := h.service.Save(c.Request.Context(), &prescription, doctorID); err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(201, prescription)
}

// GetPrescriptionsByAppointment lists the prescriptions written for an
// appointment, newest first.
func (h *PrescriptionHandler) GetPrescriptionsByAppointment(c *gin.Context) {
	id, err := parseAppointmentID(c)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid appointment ID"})
		return
	}

	prescriptions, err := h.service.GetByAppointment(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, prescriptions)
}
