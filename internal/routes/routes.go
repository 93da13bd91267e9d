package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"TASKDECK_BACK-END/internal/config"
	"TASKDECK_BACK-END/internal/handlers"
	"TASKDECK_BACK-END/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	authHandler *handlers.AuthHandler,
	googleAuthHandler *handlers.GoogleAuthHandler,
	forgotPasswordHandler *handlers.ForgotPasswordHandler,
	tasksHandler *handlers.TasksHandler,
	healthHandler *handlers.HealthHandler,
	cfg *config.Config,
) {
	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)
	http.HandleFunc("/api/auth/profile", middleware.AuthMiddleware(authHandler.GetProfile, &cfg.JWT))
	http.HandleFunc("/api/auth/forgot-password", forgotPasswordHandler.ForgotPassword)
	http.HandleFunc("/api/auth/verify-otp", forgotPasswordHandler.VerifyOTP)
	http.HandleFunc("/api/auth/reset-password", forgotPasswordHandler.ResetPassword)
	http.HandleFunc("/api/auth/google/login", googleAuthHandler.GoogleLogin)
	http.HandleFunc("/api/auth/google/callback", googleAuthHandler.GoogleCallback)

	// Task routes, all behind the token verifier
	http.HandleFunc("/api/tasks", middleware.AuthMiddleware(tasksHandler.Tasks, &cfg.JWT))
	http.HandleFunc("/api/tasks/", middleware.AuthMiddleware(tasksHandler.TaskByID, &cfg.JWT))

	// Swagger documentation
	http.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Taskdeck backend is running."))
}
