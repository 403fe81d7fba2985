package users

import (
	"regexp"
	"unicode"
)

// Client-facing validation messages, kept verbatim from the product.
const (
	MsgInvalidEmail      = "El correo electrónico no es válido."
	MsgWeakPassword      = "La contraseña debe tener al menos 8 caracteres, una letra mayúscula, una minúscula, un dígito y un carácter especial."
	MsgInvalidRole       = "El rol especificado no es válido."
	MsgInvalidStatus     = "El estado especificado no es válido."
	MsgIncompleteAddress = "La dirección debe estar completa."
	MsgEmailTaken        = "El correo electrónico ya está registrado."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword enforces the password policy: at least 8 characters with an
// upper-case letter, a lower-case letter, a digit and a special character.
func ValidPassword(pw string) bool {
	var upper, lower, digit, special bool
	runes := []rune(pw)
	if len(runes) < 8 {
		return false
	}
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// CompleteAddress reports whether every address field is present. Only
// relevant when an address is supplied at all.
func CompleteAddress(a *Address) bool {
	if a == nil {
		return true
	}
	return a.Street != "" && a.Number != "" && a.City != "" && a.PostalCode != ""
}
