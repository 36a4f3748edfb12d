package chord

import (
	"math"

	"chorda/domain/core"
)

// Scale selects the monotonic transform mapping cell values to chord widths.
type Scale string

const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
)

// Sign tags a chord of a signed statistic. Unsigned measures (Cramér's V,
// Phi) carry SignNone; the tag is always derived from the original signed
// value, never from the absolute value used for filtering.
type Sign int

const (
	SignNone     Sign = 0
	SignPositive Sign = 1
	SignNegative Sign = -1
)

// Config is the explicit layout configuration. The zero value is not usable
// directly; call Normalize (or use Default) to fill in geometry defaults.
type Config struct {
	Threshold float64 `json:"threshold"` // cells with |value| < Threshold generate no chord
	Scale     Scale   `json:"scale"`
	NodeGap   float64 `json:"node_gap"` // angular margin removed from each node's span, radians

	// Rendering-convention geometry. Any monotonic radius rule is
	// acceptable; these defaults bow stronger chords further out.
	BaseRadius  float64 `json:"base_radius"`
	BowFactor   float64 `json:"bow_factor"`
	LabelRadius float64 `json:"label_radius"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Threshold:   0.1,
		Scale:       ScaleLinear,
		BaseRadius:  0.8,
		BowFactor:   0.1,
		LabelRadius: 1.35,
	}
}

// Normalize fills unset geometry fields with defaults and validates the
// tunable ones.
func (c Config) Normalize() (Config, error) {
	d := Default()
	if c.Scale == "" {
		c.Scale = d.Scale
	}
	if c.Scale != ScaleLinear && c.Scale != ScaleLog {
		return c, core.ErrInvalidScale
	}
	if c.Threshold < 0 || math.IsNaN(c.Threshold) {
		return c, core.ErrInvalidThreshold
	}
	if c.BaseRadius == 0 {
		c.BaseRadius = d.BaseRadius
	}
	if c.BowFactor == 0 {
		c.BowFactor = d.BowFactor
	}
	if c.LabelRadius == 0 {
		c.LabelRadius = d.LabelRadius
	}
	return c, nil
}

// Node is one entity placed on the ring.
type Node struct {
	ID    string  `json:"id"`
	Group int     `json:"group"` // 0 for rows/combined, 1 for the column group of a bipartite layout
	Angle float64 `json:"angle"` // [0, 2π)
	Span  float64 `json:"span"`  // angular span after NodeGap
	Size  float64 `json:"size"`  // marginal mass / max marginal, (0, 1]

	// Label placement: rotation in degrees at LabelRadius, flipped 180°
	// when the angle falls in the lower half so text never reads upside
	// down.
	LabelRotation float64 `json:"label_rotation"`
	LabelFlipped  bool    `json:"label_flipped"`
}

// Chord is one surviving cell rendered as an arc between two nodes.
type Chord struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`  // original signed cell value
	Weight float64 `json:"weight"` // post-scale normalized weight in [0, 1]
	Sign   Sign    `json:"sign"`
	Width  float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Radius float64 `json:"radius"` // bow radius, monotone in Weight
}

// Layout is the renderable geometry handed to a drawing collaborator. It is
// ephemeral: computed fresh per call and never persisted.
type Layout struct {
	ID     core.ArtifactID `json:"id"`
	Nodes  []Node          `json:"nodes"`
	Chords []Chord         `json:"chords"`
	Config Config          `json:"config"`
}
