// Package validation holds the character-set rules the directory enforces on
// logins, passwords and names. The predicates are pure; RegisterBindingRules
// additionally exposes them as gin binding validators.
package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nord-digital/userdir/internal/constants"
)

// IsValidLogin reports whether s is non-empty and contains only ASCII
// letters and digits.
func IsValidLogin(s string) bool {
	return isASCIIAlphanumeric(s)
}

// IsValidPassword applies the same character rule as logins.
func IsValidPassword(s string) bool {
	return isASCIIAlphanumeric(s)
}

// IsValidName reports whether s is non-empty and contains only ASCII or
// Cyrillic letters.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isASCIILetter(r) && !isCyrillicLetter(r) {
			return false
		}
	}
	return true
}

// IsValidGender reports whether g is within the accepted range.
func IsValidGender(g int) bool {
	return g >= constants.MinGender && g <= constants.MaxGender
}

func isASCIIAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isASCIILetter(r) && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isCyrillicLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

// RegisterBindingRules installs the custom validators used by request DTO
// binding tags. Call once at startup.
func RegisterBindingRules() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("login_chars", func(fl validator.FieldLevel) bool {
		return IsValidLogin(fl.Field().String())
	})

	_ = v.RegisterValidation("name_chars", func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	})
}
