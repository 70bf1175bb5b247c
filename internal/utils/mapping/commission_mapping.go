package mapping

import (
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/models"
)

// ToModelCommissionRecord converts a domain CommissionRecord to a model CommissionRecord
func ToModelCommissionRecord(d domain.CommissionRecord) models.CommissionRecord {
	return models.CommissionRecord{
		CommissionID:     d.CommissionID,
		SalonID:          d.SalonID,
		EmployeeID:       d.EmployeeID,
		SourceType:       string(d.SourceType),
		SourceID:         d.SourceID,
		SaleAmount:       d.SaleAmount,
		CommissionRate:   d.CommissionRate,
		Amount:           d.Amount,
		CurrencyCode:     d.CurrencyCode,
		Paid:             d.Paid,
		PaidAt:           d.PaidAt,
		PaymentMethod:    string(d.PaymentMethod),
		PaymentReference: d.PaymentReference,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCommissionRecord converts a model CommissionRecord to a domain CommissionRecord
func ToDomainCommissionRecord(m models.CommissionRecord) domain.CommissionRecord {
	return domain.CommissionRecord{
		CommissionID:     m.CommissionID,
		SalonID:          m.SalonID,
		EmployeeID:       m.EmployeeID,
		SourceType:       domain.CommissionSourceType(m.SourceType),
		SourceID:         m.SourceID,
		SaleAmount:       m.SaleAmount,
		CommissionRate:   m.CommissionRate,
		Amount:           m.Amount,
		CurrencyCode:     m.CurrencyCode,
		Paid:             m.Paid,
		PaidAt:           m.PaidAt,
		PaymentMethod:    domain.PaymentMethod(m.PaymentMethod),
		PaymentReference: m.PaymentReference,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCommissionRecordSlice converts a slice of model CommissionRecords to domain records
func ToDomainCommissionRecordSlice(ms []models.CommissionRecord) []domain.CommissionRecord {
	ds := make([]domain.CommissionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCommissionRecord(m)
	}
	return ds
}

// ToModelSettlement converts a domain Settlement to a model Settlement
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID:    d.SettlementID,
		EmployeeID:      d.EmployeeID,
		Method:          string(d.Method),
		Reference:       d.Reference,
		TotalAmount:     d.TotalAmount,
		CommissionCount: d.CommissionCount,
		CommissionIDs:   d.CommissionIDs,
		IdempotencyKey:  d.IdempotencyKey,
		SettledAt:       d.SettledAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID:    m.SettlementID,
		EmployeeID:      m.EmployeeID,
		Method:          domain.PaymentMethod(m.Method),
		Reference:       m.Reference,
		TotalAmount:     m.TotalAmount,
		CommissionCount: m.CommissionCount,
		CommissionIDs:   m.CommissionIDs,
		IdempotencyKey:  m.IdempotencyKey,
		SettledAt:       m.SettledAt,
		CreatedBy:       m.CreatedBy,
	}
}
