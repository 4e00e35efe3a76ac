// Package config provides configuration loading and access for the
// autonomy core and its demo harness.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable the core and demo read.
type Config struct {
	Screen   ScreenConfig   `yaml:"screen"`
	Agent    AgentConfig    `yaml:"agent"`
	Behavior BehaviorConfig `yaml:"behavior"`
	Nav      NavConfig      `yaml:"nav"`
	Demo     DemoConfig     `yaml:"demo"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for cmd/demo.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// AgentConfig holds the default per-agent movement tunables.
type AgentConfig struct {
	Speed    float64 `yaml:"speed"`
	MaxForce float64 `yaml:"max_force"`
	Drag     float64 `yaml:"drag"`
}

// BehaviorConfig holds default radii and weights for the behavior
// presets, keyed by behavior name in the YAML file.
type BehaviorConfig struct {
	ArrivalSlowingRadius float64 `yaml:"arrival_slowing_radius"`
	ArrivalTolerance     float64 `yaml:"arrival_tolerance"`
	PursuitMaxPrediction float64 `yaml:"pursuit_max_prediction"`
	WanderRadius         float64 `yaml:"wander_radius"`
	WanderDistance       float64 `yaml:"wander_distance"`
	WanderJitter         float64 `yaml:"wander_jitter"`
	SeparationRadius     float64 `yaml:"separation_radius"`
	AlignmentRadius      float64 `yaml:"alignment_radius"`
	CohesionRadius       float64 `yaml:"cohesion_radius"`
	AvoidanceDistance    float64 `yaml:"avoidance_distance"`
	AvoidanceForce       float64 `yaml:"avoidance_force"`
	PathRadius           float64 `yaml:"path_radius"`
	PathAheadDistance    float64 `yaml:"path_ahead_distance"`
}

// NavConfig holds grid pathfinding tunables.
type NavConfig struct {
	Accuracy         float64 `yaml:"accuracy"`
	MaxExpandedNodes int     `yaml:"max_expanded_nodes"`
}

// DemoConfig holds cmd/demo scenario parameters.
type DemoConfig struct {
	AgentCount   int     `yaml:"agent_count"`
	SpawnRadius  float64 `yaml:"spawn_radius"`
	TelemetryCSV string  `yaml:"telemetry_csv"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	AgentSpeed32    float32
	AgentMaxForce32 float32
	AgentDrag32     float32
}

var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// WriteYAML marshals c back to path, used by the demo harness to
// snapshot the run's effective configuration next to its telemetry
// output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.AgentSpeed32 = float32(c.Agent.Speed)
	c.Derived.AgentMaxForce32 = float32(c.Agent.MaxForce)
	c.Derived.AgentDrag32 = float32(c.Agent.Drag)
}
