package records

import (
	"context"

	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con el repositorio de registros atado a ella.
// Todas las escrituras que tocan lCont pasan por aquí para recalcular el contenedor completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(recs repository.ShippingRecordRepository) error) error
}

// PasswordVerifier re-autentica al usuario antes de un borrado definitivo.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, userID, password string) error
}
