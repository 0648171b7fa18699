package ledger

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount turns user-entered money text into cents. A leading currency
// symbol and thousands separators are tolerated; a comma used as a decimal
// mark is not ("45,50" is rejected, "1,234.50" is 123450). The result is
// computed from the digit groups directly, no float conversion.
func ParseAmount(text string) (int64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
		frac = s[i+1:]
		if strings.ContainsRune(frac, '.') {
			return 0, ErrInvalidAmount
		}
	}

	if strings.ContainsRune(whole, ',') {
		if !validGrouping(whole) {
			return 0, ErrInvalidAmount
		}
		whole = strings.ReplaceAll(whole, ",", "")
	}

	if whole == "" || !allDigits(whole) {
		return 0, ErrInvalidAmount
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, ErrInvalidAmount
	}
	if !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	return dollars*100 + cents, nil
}

// validGrouping accepts digits split by commas into standard thousands
// groups: 1-3 leading digits, then groups of exactly three.
func validGrouping(s string) bool {
	groups := strings.Split(s, ",")
	if len(groups) < 2 {
		return false
	}
	if len(groups[0]) < 1 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
