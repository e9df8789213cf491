// Package pricing computes how an order total is split between the platform,
// the restaurant and the courier.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
)

// Mode selects how a PricingPolicy produces a breakdown.
type Mode string

const (
	// ModeFixed returns pinned demo amounts regardless of the input total.
	ModeFixed Mode = "fixed"
	// ModePercentage charges a fee rate on the total and a flat courier amount.
	ModePercentage Mode = "percentage"
)

// DemoBreakdown is the pinned split shown in fixed mode:
// customer $30, restaurant $20, courier $5, platform $5.
var DemoBreakdown = entity.OrderBreakdown{
	Total:            3000,
	PlatformFee:      500,
	RestaurantAmount: 2000,
	CourierAmount:    500,
}

// Policy is selected once at startup and injected into the Calculator.
type Policy struct {
	Mode Mode
	// FeeRate is the platform share of the total in percentage mode, e.g. 0.15.
	FeeRate decimal.Decimal
	// CourierFlatFee is the courier amount in percentage mode.
	CourierFlatFee int64
	// Fixed is the breakdown returned in fixed mode.
	Fixed entity.OrderBreakdown
}

// FixedPolicy pins every breakdown to DemoBreakdown.
func FixedPolicy() Policy {
	return Policy{Mode: ModeFixed, Fixed: DemoBreakdown}
}

// PercentagePolicy charges feeRate on the total and a flat courier fee.
func PercentagePolicy(feeRate decimal.Decimal, courierFlatFee int64) Policy {
	return Policy{Mode: ModePercentage, FeeRate: feeRate, CourierFlatFee: courierFlatFee}
}

// Validate rejects policies that could produce an unbalanced breakdown.
func (p Policy) Validate() error {
	switch p.Mode {
	case ModeFixed:
		if p.Fixed.Total <= 0 || !p.Fixed.Balanced() {
			return fmt.Errorf("pricing: fixed breakdown %+v does not sum to its total", p.Fixed)
		}
	case ModePercentage:
		if p.FeeRate.IsNegative() || p.FeeRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("pricing: fee rate %s outside [0, 1]", p.FeeRate)
		}
		if p.CourierFlatFee < 0 {
			return fmt.Errorf("pricing: negative courier fee %d", p.CourierFlatFee)
		}
	default:
		return fmt.Errorf("pricing: unknown mode %q", p.Mode)
	}
	return nil
}
