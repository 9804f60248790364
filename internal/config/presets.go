package config

import "sort"

// Presets are named starting points: "pressure" is the classic 0-400 bar
// pressure loop the tuner ships with, the rest exercise the two plant
// models under distinct tunings.
var Presets = map[string]*Config{
	"pressure": {
		Kp: 0.2, Ki: 0.01, Kd: 0.05, Setpoint: 200,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelFirstOrder, Tau: 1.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 10,
	},
	"sluggish": {
		Kp: 0.05, Ki: 0.002, Kd: 0, Setpoint: 200,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelFirstOrder, Tau: 5.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 60,
	},
	"aggressive": {
		Kp: 2.0, Ki: 0.5, Kd: 0.1, Setpoint: 200,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelFirstOrder, Tau: 1.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 10,
	},
	"underdamped": {
		Kp: 0.8, Ki: 0.05, Kd: 0.2, Setpoint: 100,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelSecondOrder, OmegaN: 2.0, DampingRatio: 0.2,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 20,
	},
	"critically_damped": {
		Kp: 0.8, Ki: 0.05, Kd: 0.2, Setpoint: 100,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelSecondOrder, OmegaN: 2.0, DampingRatio: 1.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 20,
	},
	"noisy_sensor": {
		Kp: 0.5, Ki: 0.02, Kd: 0.05, Setpoint: 200,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		DerivativeFilter: 0.1,
		ModelType:        ModelFirstOrder, Tau: 1.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 10,
		NoiseStdDev: 2.0, Seed: 1,
	},
	"load_change": {
		Kp: 0.5, Ki: 0.05, Kd: 0.05, Setpoint: 200,
		OutputLow: 0, OutputHigh: 400, SampleTime: 0.01,
		ModelType: ModelFirstOrder, Tau: 1.0,
		PhysicalLow: 0, PhysicalHigh: 400, Duration: 20,
		Disturbance: -20,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
