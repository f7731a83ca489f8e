package handlers

import (
	"errors"
	"strconv"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

// statusOf maps domain errors onto HTTP statuses. Anything unrecognized is
// treated as a server-side failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrSelfReference),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrNoIngredients),
		errors.Is(err, domain.ErrDuplicateIngredient),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrNoTags),
		errors.Is(err, domain.ErrDuplicateTag),
		errors.Is(err, domain.ErrCookingTimeOutOfRange),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrCredentialsNotMatch):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func currentUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok {
		return userID
	}
	return ""
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

func paginationMap(page, limit int, count int64) fiber.Map {
	return fiber.Map{
		"page":        page,
		"limit":       limit,
		"total":       count,
		"total_pages": (count + int64(limit) - 1) / int64(limit),
	}
}
