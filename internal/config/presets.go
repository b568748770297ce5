package config

// Presets are ready-made trace settings for the common study shapes.
var Presets = map[string]*Config{
	"quick-nose": {
		Scale: DefaultScale,
		Trace: TraceConfig{
			Step: 0.1, Parameterization: "pseudo", StopAt: "NOSE",
			StepMin: DefaultStepMin, StepMax: DefaultStepMax,
			ErrorTol: DefaultErrorTol, Tol: DefaultTol, MaxIt: DefaultMaxIt,
		},
	},
	"fine-nose": {
		Scale: DefaultScale,
		Trace: TraceConfig{
			Step: 0.02, Parameterization: "pseudo", AdaptStep: true, StopAt: "NOSE",
			StepMin: 1e-4, StepMax: 0.05,
			ErrorTol: 1e-4, Tol: 1e-8, MaxIt: 30,
		},
	},
	"full-curve": {
		Scale: DefaultScale,
		Trace: TraceConfig{
			Step: 0.05, Parameterization: "pseudo", AdaptStep: true, StopAt: "FULL",
			StepMin: 1e-3, StepMax: 0.1,
			ErrorTol: DefaultErrorTol, Tol: DefaultTol, MaxIt: 30,
		},
	},
	"to-unity": {
		Scale: DefaultScale,
		Trace: TraceConfig{
			Step: 0.1, Parameterization: "natural", StopAt: "1.0",
			StepMin: DefaultStepMin, StepMax: DefaultStepMax,
			ErrorTol: DefaultErrorTol, Tol: DefaultTol, MaxIt: DefaultMaxIt,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
