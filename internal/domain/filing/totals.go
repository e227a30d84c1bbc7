package filing

import (
	"github.com/shopspring/decimal"

	"github.com/neximp/backend/internal/domain/shared"
	"github.com/neximp/backend/internal/domain/shared/valueobject"
)

// ComputeTotal sums the line subtotals of the filing without rounding.
// Rounding to two decimal places happens only at presentation time.
func ComputeTotal(f *Filing) (valueobject.Money, error) {
	if f == nil || len(f.Items) == 0 {
		return valueobject.Money{}, shared.ErrEmptyItems
	}

	total := decimal.Zero
	for idx := range f.Items {
		item := &f.Items[idx]
		if item.Quantity < 1 {
			return valueobject.Money{}, shared.NewDomainError(shared.CodeInvalidItem, "Item quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return valueobject.Money{}, shared.NewDomainError(shared.CodeInvalidItem, "Item price cannot be negative")
		}
		total = total.Add(item.Subtotal())
	}

	return valueobject.NewMoneyINR(total), nil
}
