package mapping

import (
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/models"
)

// ToModelStockMovement converts a domain StockMovement to a model StockMovement
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:   d.MovementID,
		ProductID:    d.ProductID,
		MovementType: models.MovementType(d.MovementType),
		Direction:    models.MovementDirection(d.Direction),
		Quantity:     d.Quantity,
		Notes:        d.Notes,
		LevelAfter:   d.LevelAfter,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockMovement converts a model StockMovement to a domain StockMovement
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:   m.MovementID,
		ProductID:    m.ProductID,
		MovementType: domain.MovementType(m.MovementType),
		Direction:    domain.MovementDirection(m.Direction),
		Quantity:     m.Quantity,
		Notes:        m.Notes,
		LevelAfter:   m.LevelAfter,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStockMovementSlice converts a slice of model StockMovements to domain StockMovements
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}
