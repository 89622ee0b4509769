package orders

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/luxe-commerce/storefront/pkg/enums"
)

const (
	orderNumberPrefix    = "ORD"
	trackingNumberPrefix = "TRK"
	base36Charset        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	dateLayout           = "2006-01-02"
	clockLayout          = "15:04"
)

// generateOrderNumber builds ORD-<base36 ms timestamp>-<4 random base36>.
// Unique in practice for a single device, not guaranteed globally: two calls
// within the same millisecond can collide on the random suffix.
func generateOrderNumber(now time.Time, rng *rand.Rand) string {
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36Charset[rng.IntN(len(base36Charset))]
	}
	return orderNumberPrefix + "-" + timestamp + "-" + string(suffix)
}

// generateTrackingNumber builds TRK plus twelve random decimal digits.
func generateTrackingNumber(rng *rand.Rand) string {
	digits := make([]byte, 12)
	for i := range digits {
		digits[i] = byte('0' + rng.IntN(10))
	}
	return trackingNumberPrefix + string(digits)
}

// estimatedDelivery picks a calendar date 5, 6 or 7 days out, uniformly.
func estimatedDelivery(now time.Time, rng *rand.Rand) string {
	return now.AddDate(0, 0, 5+rng.IntN(3)).Format(dateLayout)
}

// seedTrackingEvents produces the two synthetic entries every new order
// starts with. Later status updates do not append to this log.
func seedTrackingEvents(createdAt time.Time) []TrackingEvent {
	confirmedAt := createdAt.Add(5 * time.Minute)
	return []TrackingEvent{
		{
			Status:      enums.OrderStatusPending,
			Date:        createdAt.Format(dateLayout),
			Time:        createdAt.Format(clockLayout),
			Location:    "Online",
			Description: "Order placed successfully",
		},
		{
			Status:      enums.OrderStatusConfirmed,
			Date:        confirmedAt.Format(dateLayout),
			Time:        confirmedAt.Format(clockLayout),
			Location:    "Warehouse",
			Description: "Order confirmed and payment received",
		},
	}
}
