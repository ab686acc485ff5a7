package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	RgxEmail = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	// local (0912345678) or international (+84912345678) numbers, digits only after normalisation
	RgxPhoneNumber = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

	RgxDigits = regexp.MustCompile(`^[0-9]+$`)

	rgxNonDigits = regexp.MustCompile(`\D`)
)

type Validator struct {
	Errors []string `json:",omitempty"`
}

func (v Validator) HasErrors() bool {
	return len(v.Errors) != 0
}

func (v *Validator) AddError(message string) {
	if v.Errors == nil {
		v.Errors = []string{}
	}

	v.Errors = append(v.Errors, message)
}

func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}

	_, err := mail.ParseAddress(value)
	return err == nil && RgxEmail.MatchString(value)
}

func In[T comparable](value T, safelist ...T) bool {
	for i := range safelist {
		if value == safelist[i] {
			return true
		}
	}
	return false
}

// DigitsOnly strips everything that is not 0-9
func DigitsOnly(value string) string {
	return rgxNonDigits.ReplaceAllString(value, "")
}

// NormalizePhoneNumber removes separators while keeping a leading plus
func NormalizePhoneNumber(value string) string {
	value = strings.TrimSpace(value)
	prefix := ""
	if strings.HasPrefix(value, "+") {
		prefix = "+"
	}
	return prefix + DigitsOnly(value)
}
