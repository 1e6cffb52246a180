// Package risk defines the risk records the engine consumes. Risk detection
// itself (news analysis, severity tagging) is an external collaborator; the
// engine only sees its typed output.
package risk

import (
	"fmt"

	"github.com/dd0wney/cluso-sentinel/pkg/validation"
)

// Category classifies the nature of a detected risk.
type Category string

const (
	Geopolitical     Category = "geopolitical"
	NaturalDisaster  Category = "natural_disaster"
	MaterialShortage Category = "material_shortage"
	Financial        Category = "financial"
	Logistics        Category = "logistics"
	Regulatory       Category = "regulatory"
	Other            Category = "other"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case Geopolitical, NaturalDisaster, MaterialShortage, Financial, Logistics, Regulatory, Other:
		return true
	}
	return false
}

// ParseCategory maps a string to a Category, defaulting unknowns to Other.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return Other
}

// Risk is one detected risk event affecting named suppliers.
type Risk struct {
	Title             string   `json:"title" validate:"required"`
	Severity          float64  `json:"severity" validate:"gte=0,lte=1"`
	Category          Category `json:"category"`
	Confidence        float64  `json:"confidence" validate:"gte=0,lte=1"`
	AffectedSuppliers []string `json:"affected_suppliers"`
	SourceNewsIndex   int      `json:"source_news_index" validate:"gte=0"`
}

// Validate checks the record's value ranges and category.
func (r *Risk) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !r.Category.Valid() {
		return fmt.Errorf("Category: unknown value %q", r.Category)
	}
	return nil
}

// Filter splits risks into valid records and per-record validation errors.
// Invalid records are excluded, never fatal.
func Filter(risks []Risk) (valid []Risk, rejected []error) {
	valid = make([]Risk, 0, len(risks))
	for i := range risks {
		if err := risks[i].Validate(); err != nil {
			rejected = append(rejected, fmt.Errorf("risk %d (%s): %w", i, risks[i].Title, err))
			continue
		}
		valid = append(valid, risks[i])
	}
	return valid, rejected
}
