package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

const (
	DefaultStep     = 0.05
	DefaultStepMin  = 1e-4
	DefaultStepMax  = 0.2
	DefaultErrorTol = 1e-3
	DefaultTol      = 1e-6
	DefaultMaxIt    = 20
	DefaultScale    = 2.5
)

type Config struct {
	Case   string       `yaml:"case"`
	Scale  float64      `yaml:"scale"`
	Trace  TraceConfig  `yaml:"trace"`
	Output OutputConfig `yaml:"output"`
}

type TraceConfig struct {
	Step             float64 `yaml:"step"`
	Parameterization string  `yaml:"parameterization"`
	AdaptStep        bool    `yaml:"adapt_step"`
	StepMin          float64 `yaml:"step_min"`
	StepMax          float64 `yaml:"step_max"`
	ErrorTol         float64 `yaml:"error_tol"`
	Tol              float64 `yaml:"tol"`
	MaxIt            int     `yaml:"max_it"`
	StopAt           string  `yaml:"stop_at"`
}

type OutputConfig struct {
	JSON    string `yaml:"json"`
	CSV     string `yaml:"csv"`
	SVG     string `yaml:"svg"`
	Archive string `yaml:"archive"`
	Plot    bool   `yaml:"plot"`
	PlotBus int    `yaml:"plot_bus"`
}

func DefaultConfig() *Config {
	return &Config{
		Scale: DefaultScale,
		Trace: TraceConfig{
			Step:             DefaultStep,
			Parameterization: "pseudo",
			StepMin:          DefaultStepMin,
			StepMax:          DefaultStepMax,
			ErrorTol:         DefaultErrorTol,
			Tol:              DefaultTol,
			MaxIt:            DefaultMaxIt,
			StopAt:           "NOSE",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// TraceOptions resolves the string-typed trace settings into continuation
// options.
func (c *Config) TraceOptions() (cpf.Options, error) {
	opts := cpf.DefaultOptions()
	opts.Step = c.Trace.Step
	opts.AdaptStep = c.Trace.AdaptStep
	opts.StepMin = c.Trace.StepMin
	opts.StepMax = c.Trace.StepMax
	opts.ErrorTol = c.Trace.ErrorTol
	opts.Tol = c.Trace.Tol
	opts.MaxIt = c.Trace.MaxIt

	param, err := cpf.ParseParameterization(c.Trace.Parameterization)
	if err != nil {
		return opts, err
	}
	opts.Parameterization = param

	stop, err := cpf.ParseStopAt(c.Trace.StopAt)
	if err != nil {
		return opts, err
	}
	opts.StopAt = stop
	return opts, nil
}
