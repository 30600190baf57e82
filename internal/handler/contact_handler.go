package handler

import (
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit stores a contact form message.
// @Summary Submit the contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param body body dto.ContactRequest true "Contact details"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	contact, err := h.contactService.Submit(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Contact details saved successfully!", "contact": contact})
}

// List returns every stored contact message.
// @Summary List contact messages
// @Tags contact
// @Produce json
// @Success 200 {array} dto.ContactResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /contact [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	contacts, err := h.contactService.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(contacts)
}

// Delete removes a contact message.
// @Summary Delete a contact message
// @Tags contact
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := h.contactService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Contact deleted successfully!"})
}
