package decision

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
)

// TestDecisionInvariants uses property-based testing to verify scoring and
// recommendation invariants for arbitrary inputs.
func TestDecisionInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	cfg := config.Default().Decision

	// Property 1: confidence never leaves the unit interval
	properties.Property("confidence stays within the unit interval", prop.ForAll(
		func(severity, simImpact float64, material, country string, known bool) bool {
			s := score(&cfg, confidenceInputs{
				severity:  severity,
				material:  material,
				country:   country,
				simImpact: simImpact,
				known:     known,
			})
			return s >= 0 && s <= 1
		},
		gen.Float64Range(-2, 2),
		gen.Float64Range(-2, 2),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	// Property 2: a higher confidence never maps to a lower tier
	properties.Property("tier assignment is monotone in confidence", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return TierFor(lo) <= TierFor(hi)
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	// Property 3: selected actions always fit the horizon or fall back to monitoring
	properties.Property("selected action lead time fits the horizon", prop.ForAll(
		func(confidence float64, horizon int) bool {
			entry := selectAction(TierFor(confidence), horizon)
			if entry.Name == ActionMonitorClosely {
				return true
			}
			return entry.LeadTimeDays <= horizon
		},
		gen.Float64Range(0, 1),
		gen.IntRange(0, 365),
	))

	// Property 4: no two recommendations share an action and supplier
	properties.Property("recommendations are unique per action and supplier", prop.ForAll(
		func(severities []float64, supplierIdx []int8) bool {
			pool := []string{"Acme Semiconductors", "Baltic Steel", "Pacific Polymers"}
			risks := make([]risk.Risk, 0, len(severities))
			for i, sev := range severities {
				supplier := pool[0]
				if i < len(supplierIdx) {
					idx := int(supplierIdx[i])
					if idx < 0 {
						idx = -idx
					}
					supplier = pool[idx%len(pool)]
				}
				risks = append(risks, risk.Risk{
					Title:             "property risk",
					Severity:          sev,
					Category:          risk.Logistics,
					Confidence:        0.8,
					AffectedSuppliers: []string{supplier},
				})
			}

			engine := NewEngine(cfg, nil)
			result, err := engine.Decide(risks, nil, nil)
			if err != nil {
				return false
			}

			seen := make(map[dedupKey]bool)
			prev := 2.0
			for _, a := range result.RecommendedActions {
				key := dedupKey{action: a.Action, supplier: a.AffectedSupplier}
				if seen[key] {
					return false
				}
				seen[key] = true
				// Sorted by confidence descending
				if a.Confidence > prev {
					return false
				}
				prev = a.Confidence
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.Int8()),
	))

	properties.TestingRun(t)
}
