package checkout

import (
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
)

var hundred = decimal.NewFromInt(100)

// Paid suma los pagos.
func Paid(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Balance = precio final - pagado. Negativo si se cobró de más. No se persiste.
func Balance(finalPrice decimal.Decimal, payments []Payment) decimal.Decimal {
	return finalPrice.Sub(Paid(payments))
}

// DeriveStatus depende sólo del conjunto de pagos, no del orden en que llegaron.
func DeriveStatus(finalPrice decimal.Decimal, payments []Payment) appointments.Status {
	if len(payments) == 0 {
		return appointments.StatusPending
	}
	if Balance(finalPrice, payments).Sign() <= 0 {
		return appointments.StatusCollected
	}
	return appointments.StatusDeposited
}

// Commission = final × pct / 100 sólo si está cobrado; si no, cero.
func Commission(status appointments.Status, finalPrice, pct decimal.Decimal) decimal.Decimal {
	if status != appointments.StatusCollected {
		return decimal.Zero
	}
	return finalPrice.Mul(pct).Div(hundred).Round(2)
}
