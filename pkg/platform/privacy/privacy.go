// Package privacy masks contact details before they are displayed or logged.
package privacy

import "strings"

const (
	maskedMobilePlaceholder = "**********"
	maskedEmailPlaceholder  = "****@****.com"
)

// MaskMobile keeps only the last four digits of a mobile number.
//
// Example:
//
//	MaskMobile("9876543210") // "******3210"
//	MaskMobile("")           // "**********"
func MaskMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return maskedMobilePlaceholder
	}
	if len(mobile) <= 4 {
		return "******" + mobile
	}
	return "******" + mobile[len(mobile)-4:]
}

// MaskEmail keeps the first two characters of the local part and the domain.
//
// Example:
//
//	MaskEmail("asha.patil@example.com") // "as****@example.com"
//	MaskEmail("")                       // "****@****.com"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return maskedEmailPlaceholder
	}

	local, domain, found := strings.Cut(email, "@")
	prefix := local
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	if !found {
		return prefix + "****"
	}
	return prefix + "****@" + domain
}
