// Sentinel runs the supply chain risk analysis loop: build the dependency
// graph, simulate disruptions, recommend actions, persist the cycle. It
// repeats on a fixed interval until interrupted, or runs a single cycle
// with -once.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-sentinel/pkg/config"
	"github.com/dd0wney/cluso-sentinel/pkg/cycle"
	"github.com/dd0wney/cluso-sentinel/pkg/graph"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
	"github.com/dd0wney/cluso-sentinel/pkg/metrics"
	"github.com/dd0wney/cluso-sentinel/pkg/persistence"
	"github.com/dd0wney/cluso-sentinel/pkg/pubsub"
	"github.com/dd0wney/cluso-sentinel/pkg/risk"
)

// dataset is the on-disk input shape: supplier master data, optional
// explicit relationships, and the current risk signals.
type dataset struct {
	Suppliers     []graph.Supplier     `json:"suppliers"`
	Relationships []graph.Relationship `json:"relationships"`
	Risks         []risk.Risk          `json:"risks"`
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults apply when empty)")
	inputPath := flag.String("input", "", "Path to JSON input file with suppliers, relationships and risks")
	risksPath := flag.String("risks", "", "Optional JSON file with a risk array, replaces the input file's risks")
	once := flag.Bool("once", false, "Run a single cycle and exit")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(*logLevel))
	logging.SetDefaultLogger(log)

	if *inputPath == "" {
		log.Error("missing required -input flag")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("failed to load configuration", logging.Error(err))
		os.Exit(1)
	}

	input, err := loadInput(*inputPath, *risksPath)
	if err != nil {
		log.Error("failed to load input data", logging.Error(err))
		os.Exit(1)
	}
	log.Info("input loaded",
		logging.Path(*inputPath),
		logging.Int("suppliers", len(input.Suppliers)),
		logging.Int("relationships", len(input.Relationships)),
		logging.Int("risks", len(input.Risks)))

	history, err := persistence.NewHistoryStore(
		cfg.Persistence.HistoryDir, cfg.Persistence.Compress, cfg.Persistence.Keep, log)
	if err != nil {
		log.Error("failed to open history store", logging.Error(err))
		os.Exit(1)
	}

	bus := pubsub.NewBus()
	defer bus.Shutdown()
	registry := metrics.DefaultRegistry()
	orch := cycle.NewOrchestrator(cfg, history, bus, registry, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watchCycles(ctx, bus, log)

	if *once {
		if _, err := orch.RunCycle(ctx, input); err != nil {
			os.Exit(1)
		}
		return
	}

	log.Info("sentinel started",
		logging.Duration("interval", cfg.Cycle.Interval),
		logging.Path(cfg.Persistence.HistoryDir))
	runLoop(ctx, orch, input, cfg.Cycle.Interval, log)
	log.Info("sentinel stopped")
}

// runLoop runs one cycle immediately, then one per tick until ctx ends. A
// failed cycle is logged and the loop keeps going.
func runLoop(ctx context.Context, orch *cycle.Orchestrator, input cycle.Input, interval time.Duration, log logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := orch.RunCycle(ctx, input); err != nil {
			log.Error("cycle failed", logging.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// watchCycles logs a one-line summary for every terminal cycle event.
func watchCycles(ctx context.Context, bus *pubsub.Bus, log logging.Logger) {
	completed := bus.Subscribe(ctx, pubsub.TopicCycleCompleted)
	failed := bus.Subscribe(ctx, pubsub.TopicCycleFailed)
	if completed == nil || failed == nil {
		return
	}
	for {
		select {
		case ev, ok := <-completed.Events():
			if !ok {
				return
			}
			log.Info("cycle summary",
				logging.CycleID(ev.CycleID),
				logging.String("status", ev.Status),
				logging.Int("decisions", ev.DecisionCount),
				logging.Float64("overall_confidence", ev.OverallConfidence),
				logging.Int("worst_case_delay_days", ev.WorstCaseDelay),
				logging.Int("warnings", ev.WarningCount))
		case ev, ok := <-failed.Events():
			if !ok {
				return
			}
			log.Warn("cycle summary",
				logging.CycleID(ev.CycleID),
				logging.String("status", ev.Status),
				logging.Int("warnings", ev.WarningCount))
		case <-ctx.Done():
			return
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(path)
}

// loadInput reads the dataset file and the optional risk override file.
func loadInput(inputPath, risksPath string) (cycle.Input, error) {
	var ds dataset
	if err := readJSON(inputPath, &ds); err != nil {
		return cycle.Input{}, err
	}
	if risksPath != "" {
		var risks []risk.Risk
		if err := readJSON(risksPath, &risks); err != nil {
			return cycle.Input{}, err
		}
		ds.Risks = risks
	}
	return cycle.Input{
		Suppliers:     ds.Suppliers,
		Relationships: ds.Relationships,
		Risks:         ds.Risks,
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
