package svg

import "math/rand"

// fallbackColor is substituted when a configured color validator rejects a
// sampled palette entry. No resampling happens on rejection.
const fallbackColor = "#999999"

// defaultPalette holds the 20 preset colors used when no palette is
// configured.
var defaultPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
	"#aaffc3", "#808000", "#ffd8b1", "#000075", "#a9a9a9",
}

// DefaultPalette returns a copy of the built-in 20 color presets.
func DefaultPalette() []string {
	return append([]string(nil), defaultPalette...)
}

// RandomColor samples the configured palette uniformly. When a color
// validator is set and rejects the sample, the fixed fallback color is
// returned instead.
func (c *Colorizer) RandomColor() string {
	v := c.cfg.Palette[rand.Intn(len(c.cfg.Palette))]
	if c.colorValidator != nil && !c.colorValidator(v) {
		return fallbackColor
	}
	return v
}
