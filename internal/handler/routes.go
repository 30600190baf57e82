package handler

import (
	"quiz-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Question *QuestionHandler
	Contact  *ContactHandler
}

// RegisterRoutes mounts the REST surface under /api.
func RegisterRoutes(router fiber.Router, h Handlers, auth middleware.RequestAuthenticator) {
	protected := middleware.Protected(auth)
	vm := middleware.NewValidationMiddleware()

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", h.Auth.Signup)
	authGroup.Post("/verify-otp", h.Auth.VerifyOTP)
	authGroup.Post("/resend-otp", h.Auth.ResendOTP)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/google-login", h.Auth.GoogleTokenLogin)
	authGroup.Get("/google/login", h.Auth.GoogleLogin)
	authGroup.Get("/google/callback", h.Auth.GoogleCallback)
	authGroup.Get("/profile", protected, h.User.GetProfile)
	authGroup.Post("/upload-profile-picture", protected, h.User.UploadProfilePicture)

	questions := api.Group("/questions", protected)
	questions.Get("/", h.Question.GetAllQuestions)
	questions.Post("/", h.Question.AddQuestion)
	questions.Post("/save-result", h.Question.SaveResult)
	questions.Get("/results/me", h.Question.GetMyResults)
	questions.Get("/:quizType", vm.ValidateQuizType(), h.Question.GetQuestionsByType)
	questions.Delete("/:id", vm.ValidateIDParam(), h.Question.DeleteQuestion)

	api.Post("/contact", h.Contact.Submit)
	api.Get("/contact", h.Contact.List)
	api.Delete("/contact/:id", vm.ValidateIDParam(), h.Contact.Delete)
}
