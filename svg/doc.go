// Package svg applies randomized, style-aware coloring to SVG documents
// represented as etree element trees.
//
// The entry point is Colorizer: it classifies the color state of every
// paintable element (own color, color inherited from a <g> ancestor, or no
// color at all), assigns new fill/stroke values or generated two-stop
// gradients while preserving the visual idiom of the source icon, and can
// restore the original coloring from a snapshot taken before the first
// mutation.
package svg
