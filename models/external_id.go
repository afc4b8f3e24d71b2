package models

import (
	"fmt"
	"strings"
)

// BuildExternalID mints the correlation identifier attached to every gateway
// transaction: "PREFIX-{bookingId}-{paymentId}".
func BuildExternalID(prefix, bookingID, paymentID string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, bookingID, paymentID)
}

// ParseExternalID recovers (bookingId, paymentId) from a correlation
// identifier. Booking ids may themselves contain the separator, so the parse
// is anchored on the LAST separator: everything after it is the payment id,
// everything between the prefix and it is the booking id.
func ParseExternalID(prefix, externalID string) (bookingID, paymentID string, err error) {
	head := prefix + "-"
	if !strings.HasPrefix(externalID, head) {
		return "", "", fmt.Errorf("external id %q does not start with %q", externalID, head)
	}
	rest := strings.TrimPrefix(externalID, head)

	sep := strings.LastIndex(rest, "-")
	if sep <= 0 || sep == len(rest)-1 {
		return "", "", fmt.Errorf("external id %q does not encode a booking and payment id", externalID)
	}
	return rest[:sep], rest[sep+1:], nil
}
