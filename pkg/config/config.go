// Package config holds the engine configuration: graph analysis weights,
// Monte Carlo parameters, decision weight tables and the cycle loop settings.
// Values are loaded from YAML with documented defaults; anything tunable about
// the decision logic (material criticality, country geopolitical risk) lives
// here rather than in the engines.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-sentinel/pkg/validation"
)

// Config is the root configuration for the sentinel engine.
type Config struct {
	Graph       GraphConfig       `yaml:"graph"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Decision    DecisionConfig    `yaml:"decision"`
	Cycle       CycleConfig       `yaml:"cycle"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// GraphConfig controls graph construction and criticality ranking.
type GraphConfig struct {
	// CriticalNodeCount is the top-K cutoff for critical supplier ranking.
	CriticalNodeCount int `yaml:"critical_node_count"`
	// DegreeWeight and BetweennessWeight form the composite importance score.
	DegreeWeight      float64 `yaml:"degree_weight"`
	BetweennessWeight float64 `yaml:"betweenness_weight"`
}

// SimulationConfig controls Monte Carlo scenario generation.
type SimulationConfig struct {
	ScenarioCount int `yaml:"scenario_count"`
	// Seed drives the scenario random source. Zero means time-seeded;
	// set a fixed value for reproducible runs.
	Seed int64 `yaml:"seed"`
	// SeverityFloor gates which risks are eligible as scenario triggers.
	SeverityFloor float64 `yaml:"severity_floor"`
	// DecayFactor is the per-hop impact attenuation during propagation.
	DecayFactor float64 `yaml:"decay_factor"`
	// ImpactFloor drops nodes whose decayed impact falls below it.
	ImpactFloor float64 `yaml:"impact_floor"`
	// MaxPropagationHops bounds the reachability search per trigger.
	MaxPropagationHops int `yaml:"max_propagation_hops"`
	// DelayJitter is the half-width of the uniform perturbation applied to
	// scenario delays, as a fraction (0.25 means a factor in [0.75, 1.25]).
	DelayJitter float64 `yaml:"delay_jitter"`
	// Workers sizes the scenario worker pool.
	Workers int `yaml:"workers"`
}

// DecisionConfig controls confidence scoring and action selection.
type DecisionConfig struct {
	// SeverityWeight scales the risk severity term of the confidence score.
	SeverityWeight float64 `yaml:"severity_weight"`
	// MaterialCap, GeoCap and SimulationCap bound their respective terms.
	MaterialCap   float64 `yaml:"material_cap"`
	GeoCap        float64 `yaml:"geo_cap"`
	SimulationCap float64 `yaml:"simulation_cap"`
	// HorizonDays is the default remaining time-to-impact used to filter
	// actions whose lead time would miss the disruption.
	HorizonDays int `yaml:"horizon_days"`
	// MaterialWeights maps lowercase material names to criticality in [0, 1].
	MaterialWeights map[string]float64 `yaml:"material_weights"`
	// CountryWeights maps lowercase country names to geopolitical risk in [0, 1].
	CountryWeights map[string]float64 `yaml:"country_weights"`
	// DefaultMaterialWeight and DefaultCountryWeight apply on table misses.
	DefaultMaterialWeight float64 `yaml:"default_material_weight"`
	DefaultCountryWeight  float64 `yaml:"default_country_weight"`
}

// CycleConfig controls the orchestrator loop.
type CycleConfig struct {
	// Interval between cycle starts when running continuously.
	Interval time.Duration `yaml:"interval"`
}

// UnmarshalYAML accepts duration strings ("30s", "5m") for the interval,
// which yaml has no native representation for.
func (c *CycleConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Interval string `yaml:"interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Interval == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return fmt.Errorf("invalid cycle interval %q: %w", raw.Interval, err)
	}
	c.Interval = d
	return nil
}

// PersistenceConfig controls the cycle history store.
type PersistenceConfig struct {
	HistoryDir string `yaml:"history_dir"`
	// Compress enables snappy compression of persisted cycle files.
	Compress bool `yaml:"compress"`
	// Keep bounds the number of history files retained by pruning (0 = keep all).
	Keep int `yaml:"keep"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			CriticalNodeCount: 5,
			DegreeWeight:      0.5,
			BetweennessWeight: 0.5,
		},
		Simulation: SimulationConfig{
			ScenarioCount:      5,
			SeverityFloor:      0.3,
			DecayFactor:        0.5,
			ImpactFloor:        0.05,
			MaxPropagationHops: 3,
			DelayJitter:        0.25,
			Workers:            4,
		},
		Decision: DecisionConfig{
			SeverityWeight: 0.5,
			MaterialCap:    0.2,
			GeoCap:         0.15,
			SimulationCap:  0.15,
			HorizonDays:    30,
			// Criticality derived from lead times and redundancy: chips and
			// bearings are hard to re-source, pulp is not.
			MaterialWeights: map[string]float64{
				"semiconductors":     1.0,
				"steel":              0.8,
				"precision bearings": 0.8,
				"nuts & oils":        0.6,
				"paper pulp":         0.4,
			},
			CountryWeights: map[string]float64{
				"taiwan":      1.0,
				"china":       0.8,
				"south korea": 0.6,
				"japan":       0.4,
				"brazil":      0.4,
				"vietnam":     0.4,
				"india":       0.4,
				"germany":     0.2,
				"sweden":      0.2,
			},
			DefaultMaterialWeight: 0.4,
			DefaultCountryWeight:  0.4,
		},
		Cycle: CycleConfig{
			Interval: 5 * time.Minute,
		},
		Persistence: PersistenceConfig{
			HistoryDir: "data/history",
			Compress:   false,
			Keep:       0,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields a partial YAML file left unset.
func (c *Config) applyDefaults() {
	d := Default()
	c.Graph.CriticalNodeCount = validation.DefaultOrInt(c.Graph.CriticalNodeCount, d.Graph.CriticalNodeCount)
	c.Graph.DegreeWeight = validation.DefaultOrFloat(c.Graph.DegreeWeight, d.Graph.DegreeWeight)
	c.Graph.BetweennessWeight = validation.DefaultOrFloat(c.Graph.BetweennessWeight, d.Graph.BetweennessWeight)

	c.Simulation.ScenarioCount = validation.DefaultOrInt(c.Simulation.ScenarioCount, d.Simulation.ScenarioCount)
	c.Simulation.SeverityFloor = validation.DefaultOrFloat(c.Simulation.SeverityFloor, d.Simulation.SeverityFloor)
	c.Simulation.DecayFactor = validation.DefaultOrFloat(c.Simulation.DecayFactor, d.Simulation.DecayFactor)
	c.Simulation.ImpactFloor = validation.DefaultOrFloat(c.Simulation.ImpactFloor, d.Simulation.ImpactFloor)
	c.Simulation.MaxPropagationHops = validation.DefaultOrInt(c.Simulation.MaxPropagationHops, d.Simulation.MaxPropagationHops)
	c.Simulation.DelayJitter = validation.DefaultOrFloat(c.Simulation.DelayJitter, d.Simulation.DelayJitter)
	c.Simulation.Workers = validation.DefaultOrInt(c.Simulation.Workers, d.Simulation.Workers)

	c.Decision.SeverityWeight = validation.DefaultOrFloat(c.Decision.SeverityWeight, d.Decision.SeverityWeight)
	c.Decision.MaterialCap = validation.DefaultOrFloat(c.Decision.MaterialCap, d.Decision.MaterialCap)
	c.Decision.GeoCap = validation.DefaultOrFloat(c.Decision.GeoCap, d.Decision.GeoCap)
	c.Decision.SimulationCap = validation.DefaultOrFloat(c.Decision.SimulationCap, d.Decision.SimulationCap)
	c.Decision.HorizonDays = validation.DefaultOrInt(c.Decision.HorizonDays, d.Decision.HorizonDays)
	if c.Decision.MaterialWeights == nil {
		c.Decision.MaterialWeights = d.Decision.MaterialWeights
	}
	if c.Decision.CountryWeights == nil {
		c.Decision.CountryWeights = d.Decision.CountryWeights
	}
	c.Decision.DefaultMaterialWeight = validation.DefaultOrFloat(c.Decision.DefaultMaterialWeight, d.Decision.DefaultMaterialWeight)
	c.Decision.DefaultCountryWeight = validation.DefaultOrFloat(c.Decision.DefaultCountryWeight, d.Decision.DefaultCountryWeight)

	c.Cycle.Interval = validation.DefaultOrDuration(c.Cycle.Interval, d.Cycle.Interval)
	if c.Persistence.HistoryDir == "" {
		c.Persistence.HistoryDir = d.Persistence.HistoryDir
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config").
		Positive("Graph.CriticalNodeCount", c.Graph.CriticalNodeCount).
		Fraction("Graph.DegreeWeight", c.Graph.DegreeWeight).
		Fraction("Graph.BetweennessWeight", c.Graph.BetweennessWeight).
		Positive("Simulation.ScenarioCount", c.Simulation.ScenarioCount).
		Fraction("Simulation.SeverityFloor", c.Simulation.SeverityFloor).
		Fraction("Simulation.DecayFactor", c.Simulation.DecayFactor).
		Fraction("Simulation.ImpactFloor", c.Simulation.ImpactFloor).
		Positive("Simulation.MaxPropagationHops", c.Simulation.MaxPropagationHops).
		Positive("Simulation.Workers", c.Simulation.Workers).
		Fraction("Decision.SeverityWeight", c.Decision.SeverityWeight).
		Fraction("Decision.MaterialCap", c.Decision.MaterialCap).
		Fraction("Decision.GeoCap", c.Decision.GeoCap).
		Fraction("Decision.SimulationCap", c.Decision.SimulationCap).
		NonNegative("Decision.HorizonDays", c.Decision.HorizonDays).
		NonNegative("Persistence.Keep", c.Persistence.Keep).
		MinDuration("Cycle.Interval", c.Cycle.Interval, time.Second).
		Custom("Simulation.DelayJitter", func() error {
			if c.Simulation.DelayJitter < 0 || c.Simulation.DelayJitter >= 1 {
				return fmt.Errorf("value %f is outside range [0, 1)", c.Simulation.DelayJitter)
			}
			return nil
		})

	for name, w := range c.Decision.MaterialWeights {
		cv.Fraction(fmt.Sprintf("Decision.MaterialWeights[%s]", name), w)
	}
	for name, w := range c.Decision.CountryWeights {
		cv.Fraction(fmt.Sprintf("Decision.CountryWeights[%s]", name), w)
	}

	return cv.Validate()
}
