// Package orderid builds and parses the composite order identifiers
// sent to the payment gateway. The contribution id is embedded in the
// order id because the gateway echoes it back in webhooks and that is
// the only link between a gateway order and our ledger row.
package orderid

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const prefix = "order_"

var ErrBadFormat = errors.New("order id does not match order_<id>_<timestamp>")

// Build returns "order_<contributionID>_<epoch-millis>".
func Build(contributionID string) string {
	return prefix + contributionID + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// ParseContributionID extracts the contribution id from an order id.
// The id segment must be all digits and fit in an int64; anything
// else is rejected rather than trusted.
func ParseContributionID(orderID string) (int64, error) {
	rest, ok := strings.CutPrefix(orderID, prefix)
	if !ok {
		return 0, ErrBadFormat
	}

	idPart, suffix, ok := strings.Cut(rest, "_")
	if !ok || idPart == "" || suffix == "" {
		return 0, ErrBadFormat
	}
	for _, r := range idPart {
		if r < '0' || r > '9' {
			return 0, ErrBadFormat
		}
	}

	// ParseInt also catches values that overflow int64.
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, ErrBadFormat
	}
	return id, nil
}
