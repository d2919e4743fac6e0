// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "NL"

// IsValid reports whether the input parses as a dialable number.
// Numbers without a country prefix are read in the default region.
func IsValid(input string) bool {
	number, ok := parse(input)
	return ok && phonenumbers.IsValidNumber(number)
}

func parse(input string) (*phonenumbers.PhoneNumber, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return nil, false
	}
	return number, true
}
