package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
)

// Calculator turns an order total into an OrderBreakdown under a Policy.
type Calculator struct {
	policy Policy
}

// NewCalculator validates the policy and returns a calculator bound to it.
func NewCalculator(policy Policy) (*Calculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{policy: policy}, nil
}

// Policy returns the policy the calculator was built with.
func (c *Calculator) Policy() Policy { return c.policy }

// Fixed reports whether the calculator ignores the input total.
func (c *Calculator) Fixed() bool { return c.policy.Mode == ModeFixed }

// Compute splits total (minor units) into platform fee, restaurant and courier
// amounts. The fee is rounded half-up and the restaurant absorbs the
// remainder, so the parts always sum to the total. When the flat courier fee
// does not fit in what is left after the platform fee, the courier receives
// the remainder and the restaurant receives nothing.
func (c *Calculator) Compute(total int64) (entity.OrderBreakdown, error) {
	if total <= 0 {
		return entity.OrderBreakdown{}, fmt.Errorf("%w: total must be positive, got %d", entity.ErrInvalidAmount, total)
	}

	if c.policy.Mode == ModeFixed {
		return c.policy.Fixed, nil
	}

	// decimal.Round rounds half away from zero, which is half-up for positive totals.
	fee := decimal.NewFromInt(total).Mul(c.policy.FeeRate).Round(0).IntPart()
	courier := min(c.policy.CourierFlatFee, total-fee)

	return entity.OrderBreakdown{
		Total:            total,
		PlatformFee:      fee,
		RestaurantAmount: total - fee - courier,
		CourierAmount:    courier,
	}, nil
}
