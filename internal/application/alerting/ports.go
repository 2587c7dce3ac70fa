package alerting

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de alertas atado a esa tx. Garantiza que la resolución (lectura
// con bloqueo de fila + actualización) sea atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(alerts repository.AlertRepository) error) error
}
