package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	amountRegex = `^\d+(\.\d{1,2})?$`
	pixRegex    = `^[\w.+-]+@[\w-]+\.[\w.]+$|^\+?\d{10,14}$|^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
)

const (
	AmountTag = "amount"
	PixKeyTag = "pixkey"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	AmountTag: ValidateAmount,
	PixKeyTag: ValidatePixKey,
}

// ValidateAmount accepts a non-negative decimal with at most two places.
func ValidateAmount(fl validator.FieldLevel) bool {
	amount := fl.Field().String()
	return regexp.MustCompile(amountRegex).MatchString(amount)
}

// ValidatePixKey accepts email, phone or random-key formats.
func ValidatePixKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	return regexp.MustCompile(pixRegex).MatchString(key)
}
