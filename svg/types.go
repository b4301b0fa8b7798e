package svg

import "strings"

// Version is reported by Colorizer.Version and Stats.
const Version = "1.2.0"

// Paint attributes recognized by the classifier.
const (
	AttrFill   = "fill"
	AttrStroke = "stroke"
)

const (
	attrStyle = "style"
	attrID    = "id"

	tagSVG   = "svg"
	tagGroup = "g"
	tagDefs  = "defs"
)

// paintableTags lists the shape kinds eligible for fill/stroke. Grouping and
// definition nodes are excluded.
var paintableTags = map[string]bool{
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// isNoPaint reports whether v is absent or one of the sentinel "no paint"
// values which are treated the same as a missing attribute.
func isNoPaint(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "transparent":
		return true
	}
	return false
}

// Config controls coloring behavior. A Colorizer copies its Config at
// construction time, later changes to the original have no effect.
type Config struct {
	// Palette to sample colors from. Empty means DefaultPalette.
	Palette []string `yaml:"palette,omitempty"`
	// PreserveLinearStyle prevents synthesizing a fill for elements drawn
	// with strokes only, keeping line icons line icons.
	PreserveLinearStyle bool `yaml:"preserve_linear_style"`
	// IndependentColors samples fill and stroke of the same element
	// independently. When false the stroke reuses the fill value.
	IndependentColors bool `yaml:"independent_colors"`
	// GradientProbability is the per-element probability in [0,1] that a
	// synthesized fill becomes a two-stop gradient instead of a flat color.
	GradientProbability float64 `yaml:"gradient_probability"`
	// Debug gates diagnostic logging only, it has no behavioral effect.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		Palette:             DefaultPalette(),
		PreserveLinearStyle: true,
		GradientProbability: 0.3,
	}
}

func (c Config) withDefaults() Config {
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
	if c.GradientProbability < 0 {
		c.GradientProbability = 0
	} else if c.GradientProbability > 1 {
		c.GradientProbability = 1
	}
	return c
}

// ApplyOptions modifies a single ApplyColors call.
// SkipModified and ForceUpdate are accepted for interface stability but are
// currently inert, their semantics are not specified yet.
type ApplyOptions struct {
	SkipModified bool
	ForceUpdate  bool
}

// PathOptions restricts ApplyPathColors to a subset of elements.
type PathOptions struct {
	// Indices of paintable elements (in document traversal order) to
	// process. Nil means all of them.
	Indices []int
	// IndependentColors overrides the configured value when non-nil.
	IndependentColors *bool
}

// ElementColorState describes the derived color flags of one paintable
// element as reported by GetColorState.
type ElementColorState struct {
	Index         int    `yaml:"index"`
	Tag           string `yaml:"tag"`
	HasFill       bool   `yaml:"has_fill"`
	HasStroke     bool   `yaml:"has_stroke"`
	HasGradient   bool   `yaml:"has_gradient"`
	InheritsPaint bool   `yaml:"inherits_paint"`
}

// ColorStateReport aggregates per-element color state for one document.
type ColorStateReport struct {
	ID                string              `yaml:"id,omitempty"`
	TotalElements     int                 `yaml:"total_elements"`
	FillElements      int                 `yaml:"fill_elements"`
	StrokeElements    int                 `yaml:"stroke_elements"`
	GradientElements  int                 `yaml:"gradient_elements"`
	InheritedElements int                 `yaml:"inherited_elements"`
	Elements          []ElementColorState `yaml:"elements"`
}

// Stats is a point-in-time snapshot of a Colorizer's internal state.
type Stats struct {
	Version     string         `yaml:"version"`
	SavedStates int            `yaml:"saved_states"`
	Listeners   map[string]int `yaml:"listeners"`
	Config      Config         `yaml:"config"`
}
