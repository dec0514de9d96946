package bot

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned for replies that are neither the removal
// shorthand nor a non-negative number.
var ErrInvalidPrice = errors.New("invalid price input")

// removePrice is the shorthand users send to drop a price bound. Zero is the
// stored "no bound" value.
const removePrice = "/remove"

// ParsePrice turns a dialogue reply into a stored price bound. "12,50" and
// "12.50" both round to 13; the removal shorthand yields 0.
func ParsePrice(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == removePrice {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidPrice
	}
	return int(math.Round(v)), nil
}
