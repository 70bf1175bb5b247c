package mapping

import (
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:       d.ProductID,
		SalonID:         d.SalonID,
		Name:            d.Name,
		SKU:             d.SKU,
		UnitPrice:       d.UnitPrice,
		TaxRate:         d.TaxRate,
		IsInventoryItem: d.IsInventoryItem,
		StockLevel:      d.StockLevel,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model Products to domain Products
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:       m.ProductID,
		SalonID:         m.SalonID,
		Name:            m.Name,
		SKU:             m.SKU,
		UnitPrice:       m.UnitPrice,
		TaxRate:         m.TaxRate,
		IsInventoryItem: m.IsInventoryItem,
		StockLevel:      m.StockLevel,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
