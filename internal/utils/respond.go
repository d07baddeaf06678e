package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/resale-api/internal/apperror"
)

// ErrorJSON переводит ошибку приложения в HTTP-ответ. Ошибки вне
// таксономии логируются и уходят клиенту как обезличенная 500 —
// внутренности хранилища наружу не попадают.
func ErrorJSON(c fiber.Ctx, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = fiber.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = fiber.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = fiber.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = fiber.StatusConflict
		}

		return c.Status(status).JSON(fiber.Map{"error": appErr.Message})
	}

	log.Printf("Внутренняя ошибка: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
}
