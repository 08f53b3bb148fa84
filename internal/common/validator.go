package common

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"
)

// IsValidBaseURL checks the API base address is an absolute http(s) URL.
func IsValidBaseURL(rawurl string) bool {
	u, err := url.Parse(rawurl)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && len(u.Host) > 0
}

func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func IsValidNumber(value string, decimalAllowed bool) bool {
	_, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	if !decimalAllowed && strings.Contains(value, ".") {
		return false
	}
	return true
}

// ValidateNumberRange checks if a number value is within the specified min/max range.
// Returns an error message if validation fails, or an empty string if validation passes.
// Empty minValue or maxValue strings are treated as no constraint.
func ValidateNumberRange(value string, minValue string, maxValue string) string {
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "Please enter a valid number"
	}

	if len(minValue) != 0 {
		min, err := strconv.ParseFloat(minValue, 64)
		if err == nil && num < min {
			return "Value must be at least " + minValue
		}
	}

	if len(maxValue) != 0 {
		max, err := strconv.ParseFloat(maxValue, 64)
		if err == nil && num > max {
			return "Value must be at most " + maxValue
		}
	}

	return ""
}
