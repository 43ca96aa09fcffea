package handlers

import (
	"clinicdesk/middlewares"
	"clinicdesk/models"
	"clinicdesk/services"
	"clinicdesk/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// GetAvailability lists the open slots for a doctor on a given day.
func (h *AppointmentHandler) GetAvailability(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.service.Availability(c.Request.Context(), doctorID, date)
	if err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}

	formatted := make([]string, 0, len(slots))
	for _, slot := range slots {
		formatted = append(formatted, slot.String())
	}
	c.JSON(200, gin.H{
		"doctor_id":       doctorID,
		"date":            date.Format("2006-01-02"),
		"available_slots": formatted,
	})
}

// BookAppointment places a new appointment. Patients can only book for
// themselves; the patient ID in the payload is overridden by their identity.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := c.ShouldBindJSON(&appointment); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if requesterRole(c) == utils.RolePatient {
		userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
		if err != nil {
			c.JSON(401, gin.H{"error": "User not found in context"})
			return
		}
		appointment.PatientID = userID
	}

	if err := h.service.Book(c.Request.Context(), &appointment); err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(201, appointment)
}

// UpdateAppointment reschedules or amends an existing appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, err := parseAppointmentID(c)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var appointment models.Appointment
	if err := c.ShouldBindJSON(&appointment); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	appointment.ID = id

	updated, err := h.service.Update(c.Request.Context(), &appointment)
	if err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, updated)
}

// CancelAppointment removes an appointment. Patients can only cancel their
// own; admins and doctors can cancel any.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, err := parseAppointmentID(c)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid appointment ID"})
		return
	}

	requesterPatientID := ""
	if requesterRole(c) == utils.RolePatient {
		userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
		if err != nil {
			c.JSON(401, gin.H{"error": "User not found in context"})
			return
		}
		requesterPatientID = userID
	}

	if err := h.service.Cancel(c.Request.Context(), id, requesterPatientID); err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Appointment cancelled"})
}

// GetDoctorDay lists a doctor's appointments for a day, optionally narrowed
// by patient name.
func (h *AppointmentHandler) GetDoctorDay(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	patientName := c.Query("patient_name")

	appointments, err := h.service.ListForDoctorDay(c.Request.Context(), doctorID, date, patientName)
	if err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func parseAppointmentID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	return uint(id), err
}

func parseDateParam(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func requesterRole(c *gin.Context) string {
	role, err := middlewares.ExtractUserRoleFromContext(c.Request.Context())
	if err != nil {
		return ""
	}
	return role
}
