// Package importer parses bank statement exports into record candidates.
// Parsers only extract and validate; persisting candidates goes through
// the regular batch add path.
package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Candidate is one parsed statement line, shaped like a record body.
type Candidate struct {
	Date         time.Time        `json:"date" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	Amount       decimal.Decimal  `json:"amount" validate:"required"`
	Currency     string           `json:"currency" validate:"required,len=3"`
	CategoryName string           `json:"categoryName"`
	BankName     string           `json:"bankName" validate:"required"`
	Deductible   bool             `json:"deductible"`
	CashBack     *decimal.Decimal `json:"cashBack,omitempty"`
}

// RowError records why a statement line was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing one statement file.
type Result struct {
	Records []Candidate `json:"records"`
	Skipped []RowError  `json:"skipped"`
}

var validate = newValidator()

// newValidator builds the candidate validator. validator cannot see into
// decimal.Decimal, so it is exposed as its string form: zero becomes the
// empty string and trips `required` like any other missing value.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok || d.IsZero() {
			return ""
		}
		return d.String()
	}, decimal.Decimal{})
	return v
}

// appendCandidate validates the candidate and files it under Records or
// Skipped.
func (r *Result) appendCandidate(line int, c Candidate) {
	if err := validate.Struct(c); err != nil {
		r.Skipped = append(r.Skipped, RowError{Line: line, Reason: validationReason(err)})
		return
	}
	r.Records = append(r.Records, c)
}

func (r *Result) skip(line int, reason string) {
	r.Skipped = append(r.Skipped, RowError{Line: line, Reason: reason})
}

func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s is %s", fe.Field(), fe.Tag())
	}
	return strings.Join(fields, "; ")
}

// frenchMonths maps lowercase French month names onto month numbers.
// Statement exports abbreviate ("janv.", "févr."); prefix matching
// handles both forms.
var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
}

// parseFrenchDate parses dates like "12 févr. 2024" or "3 mars 2024".
func parseFrenchDate(s string) (time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	day, err := atoi(strings.TrimSuffix(parts[0], ","))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized day in %q", s)
	}
	month, ok := matchFrenchMonth(parts[1])
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized month in %q", s)
	}
	year, err := atoi(strings.TrimSuffix(parts[2], ","))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized year in %q", s)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func matchFrenchMonth(abbr string) (time.Month, bool) {
	abbr = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(abbr)), ".")
	for name, m := range frenchMonths {
		if strings.HasPrefix(name, abbr) && abbr != "" {
			return m, true
		}
	}
	return 0, false
}

// parseAmount normalizes statement amounts: currency sign, thin/no-break
// spaces and the French decimal comma.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(
		"$", "",
		" ", "",
		" ", "",
		" ", "",
		",", ".",
	).Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

func atoi(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}

