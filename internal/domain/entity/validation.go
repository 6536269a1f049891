package entity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accepted input format for application dates.
const DateLayout = "2006-01-02"

// OptionalString trims s and returns nil when it is empty.
// Empty console input is stored as NULL so that the store enforces NOT NULL.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalName is OptionalString with the name upper-cased.
func OptionalName(s string) *string {
	p := OptionalString(s)
	if p != nil {
		upper := NormalizeName(*p)
		p = &upper
	}
	return p
}

// NormalizeName upper-cases a vaccine or statistic name for storage and lookup.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseOptionalID parses an integer identifier. Empty input yields nil.
// Non-numeric input returns a ValidationError wrapping ErrNotNumeric.
func ParseOptionalID(field, s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be numeric", Err: ErrNotNumeric}
	}
	return &v, nil
}

// ParseOptionalNumber parses a decimal amount. Empty input yields nil.
func ParseOptionalNumber(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &ValidationError{Field: field, Message: "must be a number", Err: ErrNotNumeric}
	}
	return &v, nil
}

// ParseOptionalDate parses a YYYY-MM-DD date. Empty input yields nil.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be a date (YYYY-MM-DD)", Err: ErrInvalidInput}
	}
	return &t, nil
}

// Ref identifies a vaccine or statistic either by id or by name.
type Ref struct {
	ID   *int64
	Name string
}

// ParseRef reads a console answer that may be a numeric code or a name.
// All-digit input is a code; anything else is an upper-cased name.
// A code that does not fit an int64 is a ValidationError wrapping ErrNotNumeric.
func ParseRef(field, s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, nil
	}
	if isDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Ref{}, &ValidationError{Field: field, Message: "code out of range", Err: ErrNotNumeric}
		}
		return Ref{ID: &v}, nil
	}
	return Ref{Name: NormalizeName(s)}, nil
}

// IsZero reports whether neither id nor name was given.
func (r Ref) IsZero() bool {
	return r.ID == nil && r.Name == ""
}

func (r Ref) String() string {
	if r.ID != nil {
		return strconv.FormatInt(*r.ID, 10)
	}
	return r.Name
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// Increment is a price change, either an absolute amount or a percentage.
type Increment struct {
	Amount  float64
	Percent bool
}

// ParseIncrement reads "+10", "-2.5", "10%" or "+10 %".
// A trailing percent marker selects the percentage path.
func ParseIncrement(s string) (Increment, error) {
	s = strings.TrimSpace(s)
	var inc Increment
	if strings.HasSuffix(s, "%") {
		inc.Percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Increment{}, &ValidationError{Field: "increment", Message: "must be a number, optionally followed by %", Err: ErrNotNumeric}
	}
	inc.Amount = v
	return inc, nil
}

// Apply returns value changed by the increment, rounded to two decimals.
func (inc Increment) Apply(value float64) float64 {
	var out float64
	if inc.Percent {
		out = value + value*inc.Amount/100
	} else {
		out = value + inc.Amount
	}
	return math.Round(out*100) / 100
}

func (inc Increment) String() string {
	s := strconv.FormatFloat(inc.Amount, 'f', -1, 64)
	if inc.Amount >= 0 {
		s = "+" + s
	}
	if inc.Percent {
		s += "%"
	}
	return s
}
