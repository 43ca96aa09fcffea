package handlers

import (
	"errors"

	"clinicdesk/middlewares"
	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/services"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

type doctorPayload struct {
	models.Doctor
	PlainPassword string `json:"password"`
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var payload doctorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.Create(c.Request.Context(), &payload.Doctor, payload.PlainPassword); err != nil {
		if errors.Is(err, repositories.ErrDoctorExists) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(201, payload.Doctor)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	doctor, err := h.service.GetByID(c.Request.Context(), c.Param("doctor_id"))
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if doctor == nil {
		c.JSON(404, gin.H{"error": "Doctor not found"})
		return
	}
	c.JSON(200, doctor)
}

// GetDoctors lists doctors, optionally filtered by name, specialty, and an
// AM/PM availability period.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	name := c.Query("name")
	specialty := c.Query("specialty")
	period := c.Query("period")

	var (
		doctors []models.Doctor
		err     error
	)
	if name == "" && specialty == "" && period == "" {
		doctors, err = h.service.GetAll(c.Request.Context())
	} else {
		doctors, err = h.service.Filter(c.Request.Context(), name, specialty, period)
	}
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, doctors)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var payload doctorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	payload.Doctor.ID = c.Param("doctor_id")
	payload.Doctor.Password = payload.PlainPassword

	if err := h.service.Update(c.Request.Context(), &payload.Doctor); err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, payload.Doctor)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("doctor_id")); err != nil {
		middlewares.RespondSchedulingError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Doctor deleted"})
}
