package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hartono/salesimport/internal/domain"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// requiredText checks that a text cell is non-blank after trimming.
func requiredText(value, field string, loc domain.Location) *domain.FieldError {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	fe := domain.NewFieldError(loc, field, value, fmt.Sprintf("%s tidak boleh kosong.", field))
	return &fe
}

// validateDate checks one date cell. The four failure cases keep distinct
// messages because the preview UI (and the tests) tell them apart: blank,
// wrong type, wrong pattern, and a pattern-shaped value that is not a real
// calendar date.
func validateDate(value any, field string, loc domain.Location) *domain.FieldError {
	fail := func(message string, v any) *domain.FieldError {
		fe := domain.NewFieldError(loc, field, v, message)
		return &fe
	}

	if value == nil || value == "" {
		return fail(fmt.Sprintf("%s tidak boleh kosong.", field), "")
	}
	s, ok := value.(string)
	if !ok {
		return fail(fmt.Sprintf("Tipe data %s salah.", field), value)
	}
	if !datePattern.MatchString(s) {
		return fail(fmt.Sprintf("Format %s salah. Harap gunakan format YYY-MM-DD.", field), s)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fail(fmt.Sprintf("Tanggal di %s tidak valid (contoh: %s tidak ada di kalender).", field, s), s)
	}
	return nil
}

// validateQuantity checks that a quantity cell holds a number strictly greater
// than zero. Null, non-numeric and non-positive values all fail with the same
// message, like the source system.
func validateQuantity(value any, loc domain.Location) *domain.FieldError {
	fail := func() *domain.FieldError {
		fe := domain.NewFieldError(loc, "Quantity", value,
			"Quantity harus berupa angka lebih besar dari 0.")
		return &fe
	}

	qty, err := toDecimal(value)
	if err != nil || !qty.IsPositive() {
		return fail()
	}
	return nil
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch t := value.(type) {
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(t))
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", value)
	}
}
