package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{1,22}[a-zA-Z0-9]$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9][a-zA-Z0-9.\-]*\.[a-zA-Z]{2,}$`)
)

var reservedUsernames = map[string]struct{}{
	"admin":     {},
	"root":      {},
	"api":       {},
	"anonymous": {},
	"system":    {},
	"support":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-24 characters, contain only letters, numbers, underscores and hyphens, and start and end with a letter or number")
	}

	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// ValidateEmail validates email address format.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateGuestName validates the display name a guest supplies with a
// comment. An empty name is allowed; the caller substitutes the default.
func ValidateGuestName(name string) error {
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > 64 {
		return fmt.Errorf("name must not exceed 64 characters")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name must not be blank")
	}
	if strings.ContainsAny(name, "<>\n\r") {
		return fmt.Errorf("name contains invalid characters")
	}
	return nil
}
