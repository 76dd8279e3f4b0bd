package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codeRegex  = regexp.MustCompile(`^[0-9]{` + strconv.Itoa(CodeLength) + `}$`)
)

// Field bounds. These are input hygiene checked before any store access,
// not a security boundary.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
	MinBioLength      = 100
	CodeLength        = 6
)

// FieldError represents a single validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Login validates credential-strategy input
func Login(email, password string) []FieldError {
	var errs []FieldError
	errs = appendEmail(errs, email)
	errs = appendPassword(errs, password)
	return errs
}

// Registration validates the full registration payload
func Registration(handle, email, password, fullName, bio string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(handle) == "" {
		errs = append(errs, FieldError{Field: "telegramHandle", Message: "telegram handle is required"})
	}
	errs = appendEmail(errs, email)
	errs = appendPassword(errs, password)
	if strings.TrimSpace(fullName) == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "full name is required"})
	}
	bioLength := len([]rune(strings.TrimSpace(bio)))
	if bioLength == 0 {
		errs = append(errs, FieldError{Field: "bio", Message: "bio is required"})
	} else if bioLength < MinBioLength {
		errs = append(errs, FieldError{Field: "bio", Message: "bio must be at least 100 characters"})
	}
	return errs
}

// AuthCode validates the verification code format: exactly CodeLength digits.
func AuthCode(code string) []FieldError {
	if !codeRegex.MatchString(code) {
		return []FieldError{{Field: "code", Message: "code must be exactly " + strconv.Itoa(CodeLength) + " digits"}}
	}
	return nil
}

// Handle validates the telegram-flow handle input
func Handle(handle string) []FieldError {
	if strings.TrimSpace(handle) == "" {
		return []FieldError{{Field: "telegramHandle", Message: "telegram handle is required"}}
	}
	return nil
}

func appendEmail(errs []FieldError, email string) []FieldError {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if !emailRegex.MatchString(trimmed) {
		return append(errs, FieldError{Field: "email", Message: "invalid email format"})
	}
	return errs
}

func appendPassword(errs []FieldError, password string) []FieldError {
	length := len([]rune(strings.TrimSpace(password)))
	if length == 0 {
		return append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	if length < MinPasswordLength || length > MaxPasswordLength {
		return append(errs, FieldError{Field: "password", Message: "password must be between 8 and 64 characters"})
	}
	return errs
}
