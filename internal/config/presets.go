package config

var Presets = map[string]map[string]*Config{
	"ou": {
		"relax": {
			Process: "ou", Scheme: "euler", Method: "cn", Dt: 0.01, Duration: 20.0,
			X0:     []float64{2.0},
			Params: ParamsConfig{Mu: 0.0, Theta: 1.0, D: 0.5},
		},
		"stiff": {
			Process: "ou", Scheme: "euler", Method: "implicit", Dt: 0.001, Duration: 5.0,
			X0:     []float64{1.0},
			Params: ParamsConfig{Mu: 0.0, Theta: 10.0, D: 0.5},
		},
		"drifted": {
			Process: "ou", Scheme: "euler", Method: "cn", Dt: 0.01, Duration: 20.0,
			X0:     []float64{0.0},
			Params: ParamsConfig{Mu: 1.5, Theta: 1.0, D: 0.25},
		},
	},
	"wiener": {
		"standard": {
			Process: "wiener", Scheme: "euler", Method: "euler", Dt: 0.01, Duration: 10.0,
			X0:     []float64{0.0},
			Params: ParamsConfig{D: 0.5},
		},
		"hot": {
			Process: "wiener", Scheme: "euler", Method: "euler", Dt: 0.005, Duration: 10.0,
			X0:     []float64{0.0},
			Params: ParamsConfig{D: 2.0},
		},
	},
	"doublewell": {
		"bistable": {
			Process: "doublewell", Scheme: "milstein", Method: "cn", Dt: 0.01, Duration: 100.0,
			X0:     []float64{-1.0},
			Params: ParamsConfig{D: 0.1},
			Grid:   GridConfig{Lower: -3, Upper: 3, Npts: 200, BoundaryLeft: "reflecting", BoundaryRight: "reflecting"},
		},
		"forced": {
			Process: "doublewell", Scheme: "milstein", Method: "cn", Dt: 0.005, Duration: 200.0,
			X0:     []float64{-1.0},
			Params: ParamsConfig{D: 0.05, Famp: 0.2, Omega: 0.05},
			Grid:   GridConfig{Lower: -3, Upper: 3, Npts: 200, BoundaryLeft: "reflecting", BoundaryRight: "reflecting"},
		},
	},
	"saddlenode": {
		"tipping": {
			Process: "saddlenode", Scheme: "euler", Method: "euler", Dt: 0.001, Duration: 4.0,
			X0:     []float64{-1.0},
			Params: ParamsConfig{D: 0.01},
			Grid:   GridConfig{Lower: -5, Upper: 5, Npts: 300, BoundaryLeft: "reflecting", BoundaryRight: "absorbing"},
		},
	},
}

func GetPreset(process, preset string) *Config {
	processPresets, ok := Presets[process]
	if !ok {
		return nil
	}
	cfg, ok := processPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(process string) []string {
	processPresets, ok := Presets[process]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(processPresets))
	for name := range processPresets {
		names = append(names, name)
	}
	return names
}
