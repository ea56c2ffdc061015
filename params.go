package slabsurf

import (
	"fmt"
	"math"
	"strings"
)

type Direction int

const (
	Auto Direction = iota
	Horizontal
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "auto"
}

// ParseDirection accepts "horizontal", "vertical" or "auto".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	case "auto", "":
		return Auto, nil
	}
	return Auto, fmt.Errorf("unrecognised direction: %s", s)
}

func (d Direction) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Direction) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MachiningParameters holds one immutable set of user-configured settings
// per invocation.
type MachiningParameters struct {
	SafetyHeightMm     float64   `yaml:"safety_height"`
	FeedRateMmPerMin   float64   `yaml:"feed_rate"`
	PlungeRateMmPerMin float64   `yaml:"plunge_rate"`
	CuttingDepthMm     float64   `yaml:"cutting_depth"`
	DepthPasses        int       `yaml:"depth_passes"`
	ToolDiameterMm     float64   `yaml:"tool_diameter"`
	StepoverMm         float64   `yaml:"stepover"`
	SpindleSpeedRpm    float64   `yaml:"spindle_speed"`
	MarginMm           float64   `yaml:"margin"`
	PathDirection      Direction `yaml:"direction"`
	BridgeGaps         bool      `yaml:"bridge_gaps"`
	ReturnToHome       bool      `yaml:"return_to_home"`
}

func DefaultParameters() MachiningParameters {
	return MachiningParameters{
		SafetyHeightMm:     5,
		FeedRateMmPerMin:   400,
		PlungeRateMmPerMin: 100,
		CuttingDepthMm:     2,
		DepthPasses:        1,
		ToolDiameterMm:     6,
		StepoverMm:         0,
		SpindleSpeedRpm:    10000,
		MarginMm:           0,
		PathDirection:      Auto,
		BridgeGaps:         true,
		ReturnToHome:       true,
	}
}

// EffectiveStepover is the configured stepover, or 0.75 of the tool
// diameter when unset.
func (p MachiningParameters) EffectiveStepover() float64 {
	if p.StepoverMm > 0 {
		return p.StepoverMm
	}
	return 0.75 * p.ToolDiameterMm
}

// DepthPerPass divides the total cutting depth evenly over the configured
// depth passes. The sign is normalised here so that emission can derive
// negative Z targets without double negation.
func (p MachiningParameters) DepthPerPass() float64 {
	n := p.DepthPasses
	if n < 1 {
		n = 1
	}
	return math.Abs(p.CuttingDepthMm) / float64(n)
}
