package utils

import (
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
)

// RequireOwner — единая проверка владения ресурсом. Все защищенные
// мутации (товар, оффер, отзыв, профиль) проходят через нее.
func RequireOwner(ownerID, callerID uuid.UUID, message string) error {
	if ownerID != callerID {
		return apperror.Forbidden(message)
	}
	return nil
}
