package appointments

import (
	"time"

	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/platform/apperr"
)

var hundred = decimal.NewFromInt(100)

// Overlaps compara intervalos semiabiertos [start, end): los turnos pegados no chocan.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Lines congela nombre y precio de los items.
func Lines(items []catalog.Item) []Line {
	out := make([]Line, 0, len(items))
	for _, it := range items {
		out = append(out, Line{ItemID: it.ID, Name: it.Name, Price: it.Price})
	}
	return out
}

// Price: total = base + Σ items; final = total - descuento, nunca negativo.
func Price(base decimal.Decimal, lines []Line, dt DiscountType, dv decimal.Decimal) (total, final decimal.Decimal) {
	total = base
	for _, l := range lines {
		total = total.Add(l.Price)
	}

	final = total
	switch dt {
	case DiscountPercent:
		final = total.Sub(total.Mul(dv).Div(hundred)).Round(2)
	case DiscountFixed:
		final = total.Sub(dv)
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	return total, final
}

// ValidateDiscount: percent en [0,100], fixed >= 0, sin tipo => valor 0.
func ValidateDiscount(dt DiscountType, dv decimal.Decimal) error {
	switch dt {
	case DiscountNone:
		if !dv.IsZero() {
			return apperr.Validation("discount_type", "is required when discount_value is set")
		}
	case DiscountPercent:
		if dv.IsNegative() || dv.GreaterThan(hundred) {
			return apperr.Validation("discount_value", "must be between 0 and 100")
		}
	case DiscountFixed:
		if dv.IsNegative() {
			return apperr.Validation("discount_value", "must be >= 0")
		}
	default:
		return apperr.Validation("discount_type", "must be one of [percent fixed]")
	}
	return nil
}
