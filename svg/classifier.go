package svg

import "github.com/beevik/etree"

// Color-state classification. For each paintable element and channel (fill or
// stroke) the element is in exactly one of three states: it carries its own
// paint, it inherits paint from a <g> ancestor, or it has no paint at all.
// The state decides whether a channel is recolored and where the new value is
// written.

// ownPaint returns the element's own value for attr and whether one is
// declared. An inline style declaration overrides the presentation attribute
// of the same name, matching the CSS cascade.
func ownPaint(el *etree.Element, attr string) (string, bool) {
	if v, ok := styleValue(el.SelectAttrValue(attrStyle, ""), attr); ok {
		return v, true
	}
	if a := el.SelectAttr(attr); a != nil {
		return a.Value, true
	}
	return "", false
}

// hasOwnPaint reports whether the element declares a real (non-sentinel)
// value for attr.
func hasOwnPaint(el *etree.Element, attr string) bool {
	v, ok := ownPaint(el, attr)
	return ok && !isNoPaint(v)
}

// inheritedPaintSource walks the parent chain and returns the nearest <g>
// ancestor declaring a non-sentinel value for attr, or nil.
func inheritedPaintSource(el *etree.Element, attr string) *etree.Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == tagGroup && hasOwnPaint(p, attr) {
			return p
		}
	}
	return nil
}

// shouldColor decides whether the given channel of el is (re)colored:
//
//  1. a configured element filter short-circuits everything;
//  2. an own non-sentinel value is always eligible for recoloring;
//  3. so is a value inherited from a <g> ancestor (the write then targets
//     that ancestor, see writeTarget);
//  4. a fill is synthesized for an element with neither fill nor stroke
//     (otherwise it would stay invisible), but never for a stroke-only
//     element while PreserveLinearStyle is on;
//  5. a stroke is never synthesized for an element that had none.
func (c *Colorizer) shouldColor(el *etree.Element, attr string) bool {
	if c.elementFilter != nil && !c.elementFilter(el) {
		return false
	}
	if hasOwnPaint(el, attr) {
		return true
	}
	if inheritedPaintSource(el, attr) != nil {
		return true
	}
	if attr == AttrFill {
		hasStroke := hasOwnPaint(el, AttrStroke) || inheritedPaintSource(el, AttrStroke) != nil
		if hasStroke {
			return !c.cfg.PreserveLinearStyle
		}
		return true
	}
	return false
}

// writeTarget returns the element a synthesized value for attr should be
// written onto: the element itself when it declares an own value (or no
// ancestor does), otherwise the nearest <g> ancestor carrying the inherited
// value, so one write recolors every sibling sharing that inheritance.
func (c *Colorizer) writeTarget(el *etree.Element, attr string) *etree.Element {
	if hasOwnPaint(el, attr) {
		return el
	}
	if g := inheritedPaintSource(el, attr); g != nil {
		return g
	}
	return el
}
