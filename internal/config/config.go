package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/regulator"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	ModelFirstOrder  = "first_order"
	ModelSecondOrder = "second_order"
	DefaultModel     = ModelFirstOrder

	DefaultDuration     = 10.0
	DefaultPhysicalLow  = 0.0
	DefaultPhysicalHigh = 400.0
)

// Config is the flat key-value record persisted to disk. Field names are
// the recognized configuration surface; anything absent from a loaded
// file keeps its current value.
type Config struct {
	Kp               float64 `yaml:"kp"`
	Ki               float64 `yaml:"ki"`
	Kd               float64 `yaml:"kd"`
	Setpoint         float64 `yaml:"setpoint"`
	OutputLow        float64 `yaml:"output_low"`
	OutputHigh       float64 `yaml:"output_high"`
	SampleTime       float64 `yaml:"sample_time"`
	DerivativeFilter float64 `yaml:"derivative_filter"`

	ModelType    string  `yaml:"model_type"`
	Tau          float64 `yaml:"tau"`
	OmegaN       float64 `yaml:"omega_n"`
	DampingRatio float64 `yaml:"damping_ratio"`
	PhysicalLow  float64 `yaml:"physical_low"`
	PhysicalHigh float64 `yaml:"physical_high"`

	Duration        float64 `yaml:"duration"`
	InitialValue    float64 `yaml:"initial_value"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	Disturbance     float64 `yaml:"disturbance"`
	NoiseStdDev     float64 `yaml:"noise_stddev"`
	Seed            int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Kp:           regulator.DefaultKp,
		Ki:           regulator.DefaultKi,
		Kd:           regulator.DefaultKd,
		Setpoint:     regulator.DefaultSetpoint,
		OutputLow:    regulator.DefaultOutputLow,
		OutputHigh:   regulator.DefaultOutputHigh,
		SampleTime:   regulator.DefaultSampleTime,
		ModelType:    DefaultModel,
		Tau:          plant.DefaultTau,
		OmegaN:       plant.DefaultOmegaN,
		DampingRatio: plant.DefaultDampingRatio,
		PhysicalLow:  DefaultPhysicalLow,
		PhysicalHigh: DefaultPhysicalHigh,
		Duration:     DefaultDuration,
	}
}

// Load reads a config file over the defaults. Missing keys fall back to
// the default value for that field; an unknown model_type falls back to
// the default model rather than failing.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto merges a config file into cfg. Keys absent from the file keep
// whatever value cfg already holds, so a partial record never clobbers a
// tuned loop.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.ModelType != ModelFirstOrder && cfg.ModelType != ModelSecondOrder {
		cfg.ModelType = DefaultModel
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Regulator builds the regulator described by this config.
func (c *Config) Regulator() (*regulator.Regulator, error) {
	return regulator.New(regulator.Config{
		Kp:               c.Kp,
		Ki:               c.Ki,
		Kd:               c.Kd,
		Setpoint:         c.Setpoint,
		OutputLow:        c.OutputLow,
		OutputHigh:       c.OutputHigh,
		SampleTime:       c.SampleTime,
		DerivativeFilter: c.DerivativeFilter,
	})
}

// Model builds the plant model described by this config. Unlike Load,
// an explicitly requested unknown model type is an error here.
func (c *Config) Model() (plant.Model, error) {
	switch c.ModelType {
	case ModelFirstOrder:
		return plant.NewFirstOrder(c.Tau)
	case ModelSecondOrder:
		return plant.NewSecondOrder(c.OmegaN, c.DampingRatio)
	default:
		return nil, fmt.Errorf("unknown model type: %s", c.ModelType)
	}
}

// SimConfig builds the simulation parameters described by this config.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Duration:        c.Duration,
		InitialValue:    c.InitialValue,
		InitialVelocity: c.InitialVelocity,
		Disturbance:     c.Disturbance,
		NoiseStdDev:     c.NoiseStdDev,
		Seed:            c.Seed,
		PhysicalLow:     c.PhysicalLow,
		PhysicalHigh:    c.PhysicalHigh,
	}
}
