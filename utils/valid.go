// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// SanitizeInput trims, HTML-escapes and strips control characters from
// free-form string input.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizePhone sanitizes and validates a phone number. Digits and a
// single leading + are kept; anything else (spaces, dashes, dots) is
// stripped.
func SanitizePhone(phone string) (string, error) {
	phone = nonPhoneChars.ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return "", errors.New("phone number is empty")
	}
	if strings.Count(phone, "+") > 1 || (strings.Contains(phone, "+") && !strings.HasPrefix(phone, "+")) {
		return "", errors.New("invalid phone number format")
	}

	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 8 || len(digits) > 15 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}
