package decision

import (
	"strings"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
)

// confidenceInputs carries the per-candidate factors feeding the score.
type confidenceInputs struct {
	severity  float64
	material  string // empty when the supplier is unknown to the graph
	country   string
	simImpact float64 // decayed scenario impact for the supplier, [0, 1]
	known     bool    // supplier resolved in the graph
}

// score computes the decision confidence:
//
//	confidence = severityWeight*severity + materialTerm + geoTerm + simTerm
//
// Each term is independently clamped to its cap and the sum is capped at 1.0.
// For suppliers the graph doesn't know, only the risk-derived severity term
// contributes.
func score(cfg *config.DecisionConfig, in confidenceInputs) float64 {
	confidence := clamp(cfg.SeverityWeight*in.severity, 0, cfg.SeverityWeight)

	if in.known {
		confidence += clamp(cfg.MaterialCap*materialWeight(cfg, in.material), 0, cfg.MaterialCap)
		confidence += clamp(cfg.GeoCap*countryWeight(cfg, in.country), 0, cfg.GeoCap)
		confidence += clamp(cfg.SimulationCap*in.simImpact, 0, cfg.SimulationCap)
	}

	return clamp(confidence, 0, 1)
}

// materialWeight looks up the configured criticality for a material,
// falling back to the configured default on a miss.
func materialWeight(cfg *config.DecisionConfig, material string) float64 {
	if w, ok := cfg.MaterialWeights[strings.ToLower(strings.TrimSpace(material))]; ok {
		return w
	}
	return cfg.DefaultMaterialWeight
}

// countryWeight looks up the configured geopolitical risk for a country,
// falling back to the configured default on a miss.
func countryWeight(cfg *config.DecisionConfig, country string) float64 {
	if w, ok := cfg.CountryWeights[strings.ToLower(strings.TrimSpace(country))]; ok {
		return w
	}
	return cfg.DefaultCountryWeight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
