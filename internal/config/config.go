package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultTheta    = 1.0
	DefaultD        = 0.5
	DefaultNpts     = 100
	DefaultLower    = -10.0
	DefaultUpper    = 10.0
)

type Config struct {
	Process    string       `yaml:"process"`
	Scheme     string       `yaml:"scheme"`
	Method     string       `yaml:"method"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	X0         []float64    `yaml:"x0"`
	Seed       uint64       `yaml:"seed"`
	Grid       GridConfig   `yaml:"grid"`
	Params     ParamsConfig `yaml:"params"`
	Tau        float64      `yaml:"tau"`
	Trajectory int          `yaml:"trajectories"`
}

type GridConfig struct {
	Lower         float64 `yaml:"lower"`
	Upper         float64 `yaml:"upper"`
	Npts          int     `yaml:"npts"`
	BoundaryLeft  string  `yaml:"boundary_left"`
	BoundaryRight string  `yaml:"boundary_right"`
}

type ParamsConfig struct {
	Mu    float64 `yaml:"mu"`
	Theta float64 `yaml:"theta"`
	D     float64 `yaml:"d"`
	Famp  float64 `yaml:"famp"`
	Omega float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Process:  "ou",
		Scheme:   "euler",
		Method:   "cn",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		X0:       []float64{0},
		Grid: GridConfig{
			Lower:         DefaultLower,
			Upper:         DefaultUpper,
			Npts:          DefaultNpts,
			BoundaryLeft:  "absorbing",
			BoundaryRight: "absorbing",
		},
		Params: ParamsConfig{
			Theta: DefaultTheta,
			D:     DefaultD,
		},
		Trajectory: 1,
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

// Bounds returns the spatial domain as the pair the solvers expect.
func (c *Config) Bounds() [2]float64 {
	return [2]float64{c.Grid.Lower, c.Grid.Upper}
}

// BoundaryNames returns the boundary pairing as the pair the solvers
// expect.
func (c *Config) BoundaryNames() [2]string {
	return [2]string{c.Grid.BoundaryLeft, c.Grid.BoundaryRight}
}
