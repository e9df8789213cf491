package entity

// Order is the single checkout of a demo session. Amounts are in minor
// currency units (cents).
type Order struct {
	ID    string
	Total int64
}

// OrderBreakdown splits an order total between the platform, the restaurant
// and the courier. PlatformFee + RestaurantAmount + CourierAmount == Total.
type OrderBreakdown struct {
	Total            int64 `json:"total"`
	PlatformFee      int64 `json:"platformFee"`
	RestaurantAmount int64 `json:"restaurantAmount"`
	CourierAmount    int64 `json:"courierAmount"`
}

// Balanced reports whether the three parts sum to the total and none is negative.
func (b OrderBreakdown) Balanced() bool {
	if b.PlatformFee < 0 || b.RestaurantAmount < 0 || b.CourierAmount < 0 {
		return false
	}
	return b.PlatformFee+b.RestaurantAmount+b.CourierAmount == b.Total
}
