// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxPasswordBytes is the longest password bcrypt will hash without truncation.
const MaxPasswordBytes = 72

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 64 {
		return fmt.Errorf("username must not exceed 64 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword accepts any non-blank password bcrypt can hash in full.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateCategoryName checks a trimmed category name.
func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if utf8.RuneCountInString(name) > 128 {
		return fmt.Errorf("category name must not exceed 128 characters")
	}
	return nil
}

// ValidateOutfitTitle checks a trimmed outfit title.
func ValidateOutfitTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > 255 {
		return fmt.Errorf("title must not exceed 255 characters")
	}
	return nil
}

// ValidateItemName checks a trimmed item name.
func ValidateItemName(name string) error {
	if name == "" {
		return fmt.Errorf("item name is required")
	}
	if utf8.RuneCountInString(name) > 255 {
		return fmt.Errorf("item name must not exceed 255 characters")
	}
	return nil
}

// ValidateItemAttribute checks an optional item brand or model against its
// column size. Empty values are allowed.
func ValidateItemAttribute(label, value string) error {
	if utf8.RuneCountInString(value) > 255 {
		return fmt.Errorf("%s must not exceed 255 characters", label)
	}
	return nil
}

// ValidateImageURL checks an optional outfit image URL.
func ValidateImageURL(url string) error {
	if utf8.RuneCountInString(url) > 1024 {
		return fmt.Errorf("image_url must not exceed 1024 characters")
	}
	return nil
}
