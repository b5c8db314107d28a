// Package inp implements the input data read from a JSON configuration
// file and the rank-aware log file each simulation opens.
package inp

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/ORNL-MDF/Finch/bc"
)

// TimeConfig is the "time.*" configuration section.
type TimeConfig struct {
	Co                float64 `json:"Co"`
	StartTime         float64 `json:"start_time"`
	EndTime           float64 `json:"end_time"`
	TotalOutputSteps  int     `json:"total_output_steps"`
	TotalMonitorSteps int     `json:"total_monitor_steps"`
}

// SpaceConfig is the "space.*" configuration section.
type SpaceConfig struct {
	InitialTemperature float64    `json:"initial_temperature"`
	CellSize           float64    `json:"cell_size"`
	GlobalLowCorner    [3]float64 `json:"global_low_corner"`
	GlobalHighCorner   [3]float64 `json:"global_high_corner"`
	RanksPerDim        [3]int     `json:"ranks_per_dim"`
}

// PropertiesConfig is the "properties.*" section: a flat list of named
// scalars (fun.Prms) connected into typed fields, so a missing required
// key is caught by resolve (Prms.Find returns nil) rather than silently
// defaulting to zero.
type PropertiesConfig struct {
	Prms fun.Prms `json:"properties"`

	Density             float64 `json:"-"`
	SpecificHeat        float64 `json:"-"`
	ThermalConductivity float64 `json:"-"`
	LatentHeat          float64 `json:"-"`
	Solidus             float64 `json:"-"`
	Liquidus            float64 `json:"-"`
}

func (p *PropertiesConfig) resolve() error {
	names := []string{"density", "specific_heat", "thermal_conductivity", "latent_heat", "solidus", "liquidus"}
	targets := []*float64{&p.Density, &p.SpecificHeat, &p.ThermalConductivity, &p.LatentHeat, &p.Solidus, &p.Liquidus}
	for i, n := range names {
		prm := p.Prms.Find(n)
		if prm == nil {
			return chk.Err("properties: required parameter %q is missing", n)
		}
		p.Prms.Connect(targets[i], n, n)
	}
	return nil
}

// SourceConfig is the "source.*" configuration section.
type SourceConfig struct {
	Absorption   float64    `json:"absorption"`
	TwoSigma     [3]float64 `json:"two_sigma"`
	ScanPathFile string     `json:"scan_path_file"`
}

// SamplingConfig is the optional "sampling" section; a zero value (as
// produced by an absent JSON key) disables the solidification recorder.
type SamplingConfig struct {
	Type          string `json:"type"`
	Format        string `json:"format"`
	DirectoryName string `json:"directory_name"`
}

// OutputConfig is the "output" section: where periodic grid snapshots
// are written.
type OutputConfig struct {
	DirectoryName string `json:"directory_name"`
}

// Enabled reports whether the sampling section was present in the config.
func (s *SamplingConfig) Enabled() bool { return s.Type == "solidification_data" }

// FaceConfig is one entry of the "boundary.faces" array.
type FaceConfig struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// BoundaryConfig is the "boundary.*" section: one entry per geometric
// face, in face order Xlo, Xhi, Ylo, Yhi, Zlo, Zhi.
type BoundaryConfig struct {
	Faces [6]FaceConfig `json:"faces"`
}

func (b *BoundaryConfig) resolve() ([6]bc.Face, error) {
	var out [6]bc.Face
	for i, f := range b.Faces {
		switch f.Kind {
		case "dirichlet":
			out[i] = bc.Face{Kind: bc.Dirichlet, Value: f.Value, HasValue: true}
		case "neumann":
			out[i] = bc.Face{Kind: bc.Neumann, Value: f.Value, HasValue: true}
		case "adiabatic":
			out[i] = bc.Face{Kind: bc.Adiabatic}
		default:
			return out, chk.Err("boundary: face %d has unrecognised kind %q", i, f.Kind)
		}
	}
	return out, nil
}

// Config is the root of the configuration contract.
type Config struct {
	Time       TimeConfig
	Space      SpaceConfig
	Properties PropertiesConfig
	Source     SourceConfig
	Sampling   SamplingConfig
	Boundary   BoundaryConfig
	Output     OutputConfig

	Faces [6]bc.Face
}

// configWire is the literal on-disk JSON shape; "properties" unmarshals
// directly into a fun.Prms list, then Load resolves it into
// Config.Properties's typed fields.
type configWire struct {
	Time       TimeConfig     `json:"time"`
	Space      SpaceConfig    `json:"space"`
	Properties fun.Prms       `json:"properties"`
	Source     SourceConfig   `json:"source"`
	Sampling   SamplingConfig `json:"sampling"`
	Boundary   BoundaryConfig `json:"boundary"`
	Output     OutputConfig   `json:"output"`
}

// Load parses raw JSON bytes into a validated Config. Reading the bytes
// from disk, over the network, etc. is the caller's concern; this is
// the contract's own unmarshal+validate step.
func Load(raw []byte) (*Config, error) {
	var w configWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, chk.Err("inp: invalid JSON: %v", err)
	}
	cfg := &Config{
		Time:     w.Time,
		Space:    w.Space,
		Source:   w.Source,
		Sampling: w.Sampling,
		Boundary: w.Boundary,
		Output:   w.Output,
	}
	cfg.Properties.Prms = w.Properties
	if err := cfg.Properties.resolve(); err != nil {
		return nil, err
	}
	faces, err := cfg.Boundary.resolve()
	if err != nil {
		return nil, err
	}
	cfg.Faces = faces
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate gathers every invalid-configuration diagnostic into one
// error instead of failing at the first bad key.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) { problems = append(problems, chk.Err(format, args...).Error()) }

	if c.Space.CellSize <= 0 {
		add("space.cell_size must be positive, got %g", c.Space.CellSize)
	}
	for d := 0; d < 3; d++ {
		if c.Space.GlobalHighCorner[d] <= c.Space.GlobalLowCorner[d] {
			add("space.global_high_corner[%d] must exceed global_low_corner[%d]", d, d)
		}
	}
	if c.Time.Co <= 0 {
		add("time.Co must be positive, got %g", c.Time.Co)
	}
	if c.Time.EndTime <= c.Time.StartTime {
		add("time.end_time must exceed time.start_time")
	}
	if c.Time.TotalOutputSteps < 0 {
		add("time.total_output_steps must be >= 0")
	}
	if c.Time.TotalMonitorSteps < 0 {
		add("time.total_monitor_steps must be >= 0")
	}
	if c.Properties.Liquidus <= c.Properties.Solidus {
		add("properties.liquidus must exceed properties.solidus")
	}
	if c.Properties.Density <= 0 || c.Properties.SpecificHeat <= 0 || c.Properties.ThermalConductivity <= 0 {
		add("properties.density, specific_heat and thermal_conductivity must be positive")
	}
	if c.Source.ScanPathFile == "" {
		add("source.scan_path_file must not be empty")
	}
	for d := 0; d < 3; d++ {
		c.Source.TwoSigma[d] = math.Abs(c.Source.TwoSigma[d])
	}
	if c.Sampling.Type != "" && c.Sampling.Type != "solidification_data" {
		add("sampling.type %q is not recognised", c.Sampling.Type)
	}
	if c.Sampling.Enabled() && c.Sampling.Format != "" && c.Sampling.Format != "default" && c.Sampling.Format != "exaca" {
		add("sampling.format %q is not recognised", c.Sampling.Format)
	}
	if c.Sampling.Enabled() && c.Sampling.DirectoryName == "" {
		add("sampling.directory_name must be set when sampling is enabled")
	}
	if c.Output.DirectoryName == "" {
		c.Output.DirectoryName = "."
	}

	if len(problems) == 0 {
		return nil
	}
	msg := "inp: configuration is invalid:"
	for _, p := range problems {
		msg += "\n  - " + p
	}
	return chk.Err(msg)
}
