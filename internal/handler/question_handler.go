package handler

import (
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/middleware"
	"quiz-hub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuestionHandler struct {
	questionService service.QuestionService
	resultService   service.ResultService
}

func NewQuestionHandler(questionService service.QuestionService, resultService service.ResultService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, resultService: resultService}
}

// GetAllQuestions returns every stored question.
// @Summary List all questions
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuestionResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) GetAllQuestions(c *fiber.Ctx) error {
	questions, err := h.questionService.ListQuestions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// GetQuestionsByType returns the questions of one category.
// @Summary List questions for a quiz type
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param quizType path string true "english, gk, reasoning, math or computer"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "No questions available"
// @Router /questions/{quizType} [get]
func (h *QuestionHandler) GetQuestionsByType(c *fiber.Ctx) error {
	questions, err := h.questionService.ListByCategory(c.Context(), string(middleware.ValidatedQuizType(c)))
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// AddQuestion stores a new question.
// @Summary Add a question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	question, err := h.questionService.AddQuestion(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// DeleteQuestion removes a question by id.
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.questionService.DeleteQuestion(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Question deleted successfully"})
}

// SaveResult stores a finished quiz for the authenticated user.
// @Summary Save a quiz result
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.SaveResultRequest true "Result summary"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions/save-result [post]
func (h *QuestionHandler) SaveResult(c *fiber.Ctx) error {
	var req dto.SaveResultRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	result, err := h.resultService.SaveResult(c.Context(), middleware.CurrentAccountID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Quiz result saved", "result": result})
}

// GetMyResults returns the authenticated user's result history.
// @Summary List my quiz results
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Page size (default 10, max 100)"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.QuizResultsResponse
// @Router /questions/results/me [get]
func (h *QuestionHandler) GetMyResults(c *fiber.Ctx) error {
	var page dto.Pagination
	if err := c.QueryParser(&page); err != nil {
		return domain.NewValidationError("Invalid pagination parameters")
	}

	results, err := h.resultService.ListResults(c.Context(), middleware.CurrentAccountID(c), page)
	if err != nil {
		return err
	}
	return c.JSON(results)
}
