package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Professional es la peluquera que atiende el turno y cobra comisión.
type Professional struct {
	ID                   string
	Name                 string
	CommissionPercentage decimal.Decimal // 0-100
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
