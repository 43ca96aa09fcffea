package controllers

import (
	"clinicdesk/handlers"
	"clinicdesk/middlewares"
	"clinicdesk/utils"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers the doctor, patient, appointment, and
// prescription routes with their role gates.
func SetupClinicRoutes(router *gin.Engine, doctorHandler *handlers.DoctorHandler, patientHandler *handlers.PatientHandler, appointmentHandler *handlers.AppointmentHandler, prescriptionHandler *handlers.PrescriptionHandler) {
	// Public routes: patient signup and the doctor directory.
	router.POST("/patients", patientHandler.RegisterPatient)
	router.GET("/doctors", doctorHandler.GetDoctors)
	router.GET("/doctors/:doctor_id", doctorHandler.GetDoctorByID)
	router.GET("/doctors/:doctor_id/availability", appointmentHandler.GetAvailability)

	authed := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		authed.GET("/patients/:patient_id", patientHandler.GetPatientByID)
		authed.GET("/patients/:patient_id/appointments", patientHandler.GetPatientAppointments)

		authed.GET("/appointments/:appointment_id/prescriptions", prescriptionHandler.GetPrescriptionsByAppointment)
	}

	booking := router.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(utils.RoleAdmin, utils.RolePatient),
	)
	{
		booking.POST("", appointmentHandler.BookAppointment)
	}

	amend := router.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(utils.RoleAdmin, utils.RoleDoctor, utils.RolePatient),
	)
	{
		amend.DELETE("/:appointment_id", appointmentHandler.CancelAppointment)
	}

	staff := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(utils.RoleAdmin, utils.RoleDoctor),
	)
	{
		staff.PUT("/appointments/:appointment_id", appointmentHandler.UpdateAppointment)
		staff.GET("/doctors/:doctor_id/appointments", appointmentHandler.GetDoctorDay)
	}

	admin := router.Group("/doctors").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(utils.RoleAdmin),
	)
	{
		admin.POST("", doctorHandler.CreateDoctor)
		admin.PUT("/:doctor_id", doctorHandler.UpdateDoctor)
		admin.DELETE("/:doctor_id", doctorHandler.DeleteDoctor)
	}

	prescribing := router.Group("/prescriptions").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(utils.RoleDoctor),
	)
	{
		prescribing.POST("", prescriptionHandler.CreatePrescription)
	}
}
