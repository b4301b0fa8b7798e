package svg

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Snapshot-and-restore state. One snapshot is taken per document identity on
// the first apply and never overwritten while present, so a later reset
// always restores the very first coloring the document had.

// elementRecord captures the original paint attributes of one element.
// Nil pointers mean the attribute was absent, which is distinct from an
// explicitly empty value.
type elementRecord struct {
	Index  int
	Tag    string
	Fill   *string
	Stroke *string
	Style  *string
}

type snapshot struct {
	Records []elementRecord
	// Defs is a detached deep copy of the <defs> container, nil when the
	// original document had none.
	Defs *etree.Element
}

// attrValue returns the attribute value or nil when absent.
func attrValue(el *etree.Element, name string) *string {
	a := el.SelectAttr(name)
	if a == nil {
		return nil
	}
	v := a.Value
	return &v
}

// collectElements returns every descendant element of root in document order,
// skipping <defs> subtrees. This is the fixed traversal order snapshots and
// restores align on: recolored <g> ancestors are part of it, not just the
// paintable shapes.
func collectElements(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if child.Tag == tagDefs {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(root)
	return out
}

// collectPaintable returns the paintable shape elements of root in the same
// document order, restricted to the supported shape kinds.
func collectPaintable(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, el := range collectElements(root) {
		if paintableTags[el.Tag] {
			out = append(out, el)
		}
	}
	return out
}

// ensureSnapshot captures the original state of root under id unless one is
// already present (first-write-wins).
func (c *Colorizer) ensureSnapshot(id string, root *etree.Element) {
	if _, ok := c.snapshots[id]; ok {
		return
	}

	snap := &snapshot{}
	for i, el := range collectElements(root) {
		snap.Records = append(snap.Records, elementRecord{
			Index:  i,
			Tag:    el.Tag,
			Fill:   attrValue(el, AttrFill),
			Stroke: attrValue(el, AttrStroke),
			Style:  attrValue(el, attrStyle),
		})
	}
	if defs := root.SelectElement(tagDefs); defs != nil {
		snap.Defs = defs.Copy()
	}
	c.snapshots[id] = snap

	if c.cfg.Debug {
		c.log.Debug("Captured document snapshot", zap.String("id", id), zap.Int("elements", len(snap.Records)), zap.Bool("defs", snap.Defs != nil))
	}
}

// restoreAttr writes the recorded value back, removing the attribute when the
// record says it was absent.
func restoreAttr(el *etree.Element, name string, v *string) {
	if v == nil {
		el.RemoveAttr(name)
		return
	}
	el.CreateAttr(name, *v)
}
