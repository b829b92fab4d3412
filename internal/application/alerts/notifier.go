package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// CheckLowStock chequeo derivado tras cada mutación que cambia Quantity de un
// (part, store). Corre dentro de la misma transacción que la mutación.
//
//   - Quantity <= umbral: crea una alerta low_stock solo si no existe ya una sin
//     leer para ese par (idempotente, nunca duplica).
//   - Quantity > umbral: marca como leídas las alertas sin leer (auto-limpieza).
func CheckLowStock(ctx context.Context, notifRepo repository.NotificationRepository, part *entity.Part, rec *entity.StockRecord) error {
	threshold := part.Threshold()
	if rec.Quantity <= threshold {
		existing, err := notifRepo.GetUnread(ctx, rec.StoreID, rec.PartID, entity.NotificationTypeLowStock)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		n := &entity.Notification{
			ID:        uuid.New().String(),
			Type:      entity.NotificationTypeLowStock,
			StoreID:   rec.StoreID,
			PartID:    rec.PartID,
			Message:   fmt.Sprintf("Stock bajo de %s (%s): quedan %d unidades (umbral %d)", part.Name, part.SKU, rec.Quantity, threshold),
			CreatedAt: time.Now(),
		}
		return notifRepo.Create(ctx, n)
	}
	return notifRepo.MarkReadFor(ctx, rec.StoreID, rec.PartID, entity.NotificationTypeLowStock)
}
