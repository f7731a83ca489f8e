package handlers

import (
	"fmt"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/shopping"

	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingHandler interface {
		DownloadShoppingList(c *fiber.Ctx) error
	}

	shoppingHandler struct {
		shoppingService shopping.ShoppingService
	}
)

func NewShoppingHandler(shoppingService shopping.ShoppingService) ShoppingHandler {
	return &shoppingHandler{shoppingService: shoppingService}
}

func (h *shoppingHandler) DownloadShoppingList(c *fiber.Ctx) error {
	userID := currentUserID(c)

	list, err := h.shoppingService.AggregateShoppingList(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusOf(err), domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", domain.ShoppingListFilename))
	return c.SendString(h.shoppingService.RenderShoppingList(list))
}
