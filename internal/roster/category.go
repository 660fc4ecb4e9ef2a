package roster

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Category is a trade label shared by workers and jobs.
type Category string

const (
	Electrician Category = "Electrician"
	Plumber     Category = "Plumber"
	Carpenter   Category = "Carpenter"
	Welder      Category = "Welder"
	Mason       Category = "Mason"
	Designer    Category = "Designer"
	Painter     Category = "Painter"
	Mechanic    Category = "Mechanic"

	// Wildcard matches every category. It is a query value only and never stored on an entity.
	Wildcard Category = "All"
)

var known = []Category{Electrician, Plumber, Carpenter, Welder, Mason, Designer, Painter, Mechanic}

// Categories returns the known trades in their canonical order.
func Categories() []Category {
	return append([]Category(nil), known...)
}

// ParseCategory resolves s case-insensitively to a known trade or the wildcard.
// An empty string is treated as the wildcard.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(Wildcard)) {
		return Wildcard, true
	}
	for _, c := range known {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// IsKnown reports whether c is one of the stored trades. The wildcard is not.
func (c Category) IsKnown() bool {
	for _, k := range known {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

func validateTrade(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).IsKnown()
}

func newValidator() *validator.Validate {
	v := validator.New()
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("trade", validateTrade)
	return v
}
