package routes

import (
	"clinicdesk/cache"
	"clinicdesk/config"
	"clinicdesk/controllers"
	"clinicdesk/handlers"
	"clinicdesk/middlewares"
	"clinicdesk/repositories"
	"clinicdesk/scheduling"
	"clinicdesk/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories and the scheduling engine
	appointmentRepo := repositories.NewAppointmentRepository()
	directoryRepo := repositories.NewDirectoryRepository()
	dayLocker := repositories.NewRedisDayLocker()
	engine := scheduling.NewEngine(appointmentRepo, directoryRepo, dayLocker)

	doctorRepo := repositories.NewDoctorRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)
	adminRepo := repositories.NewAdminRepository()
	prescriptionRepo := repositories.NewPrescriptionRepository()

	// Services and handlers
	appointmentService := services.NewAppointmentService(engine, doctorRepo, patientRepo)
	doctorService := services.NewDoctorService(doctorRepo, appointmentRepo)
	patientService := services.NewPatientService(patientRepo, appointmentRepo)
	authService := services.NewAuthService(adminRepo, doctorRepo, patientRepo)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, appointmentRepo)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	patientHandler := handlers.NewPatientHandler(patientService)
	authHandler := handlers.NewAuthHandler(authService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)

	// Register routes
	controllers.SetupClinicRoutes(router, doctorHandler, patientHandler, appointmentHandler, prescriptionHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
