package svg

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Colorizer is the stateful entry point: it owns the snapshot store and the
// listener registry for its own lifetime. Operations are synchronous and run
// to completion on the calling goroutine; callers are expected to serialize
// apply/reset on the same target.
type Colorizer struct {
	cfg Config
	log *zap.Logger

	snapshots      map[string]*snapshot
	listeners      map[string][]listenerEntry
	elementFilter  func(*etree.Element) bool
	colorValidator func(string) bool
	gradientSeq    atomic.Uint64
}

// New creates a Colorizer with the given configuration. Zero-value Config
// fields fall back to DefaultConfig equivalents for palette and probability
// bounds; a nil logger is replaced with a nop one.
func New(cfg Config, log *zap.Logger) *Colorizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Colorizer{
		cfg:       cfg.withDefaults(),
		log:       log.Named("svgtint"),
		snapshots: make(map[string]*snapshot),
		listeners: make(map[string][]listenerEntry),
	}
}

// Version returns the library version constant.
func (c *Colorizer) Version() string {
	return Version
}

// SetElementFilter installs a predicate consulted before any color logic; a
// rejected element is never recolored. Nil removes the filter.
func (c *Colorizer) SetElementFilter(fn func(*etree.Element) bool) {
	c.elementFilter = fn
}

// SetColorValidator installs a predicate for sampled palette values. A
// rejected sample is substituted with a fixed fallback color, not resampled.
// Nil removes the validator.
func (c *Colorizer) SetColorValidator(fn func(string) bool) {
	c.colorValidator = fn
}

// ClearAllState drops every saved snapshot. Targets applied before this call
// can no longer be reset.
func (c *Colorizer) ClearAllState() {
	n := len(c.snapshots)
	c.snapshots = make(map[string]*snapshot)
	if c.cfg.Debug {
		c.log.Debug("Cleared saved state", zap.Int("dropped", n))
	}
}

// GetStats reports the current version, saved snapshot count, listener counts
// per event and the active configuration.
func (c *Colorizer) GetStats() Stats {
	counts := make(map[string]int, len(c.listeners))
	for name, entries := range c.listeners {
		counts[name] = len(entries)
	}
	return Stats{
		Version:     Version,
		SavedStates: len(c.snapshots),
		Listeners:   counts,
		Config:      c.cfg,
	}
}

func validTarget(target *etree.Element) error {
	if target == nil {
		return errors.New("target element is nil")
	}
	if target.Tag != tagSVG {
		return fmt.Errorf("target element is <%s>, expected <%s>", target.Tag, tagSVG)
	}
	return nil
}

// ensureDocumentID returns the root's id attribute, synthesizing and
// assigning a unique one when absent so a later reset can find the snapshot.
func (c *Colorizer) ensureDocumentID(root *etree.Element) string {
	if id := root.SelectAttrValue(attrID, ""); id != "" {
		return id
	}
	id := "svgtint-" + uuid.NewString()
	root.CreateAttr(attrID, id)
	return id
}

// defsContainer returns the document's <defs>, creating it as the first
// child of the root when absent.
func defsContainer(root *etree.Element) *etree.Element {
	if defs := root.SelectElement(tagDefs); defs != nil {
		return defs
	}
	defs := etree.NewElement(tagDefs)
	root.InsertChildAt(0, defs)
	return defs
}

// ApplyColors recolors every paintable element of target according to the
// classification rules, taking a snapshot of the original state first when
// none exists yet. It returns false only when the target is not an <svg>
// element or contains no paintable elements; per-element failures are
// reported through error events and do not fail the pass.
func (c *Colorizer) ApplyColors(target *etree.Element, opts ApplyOptions) bool {
	_ = opts // SkipModified/ForceUpdate are currently inert
	return c.apply(target, nil, c.cfg.IndependentColors)
}

// ApplyPathColors is ApplyColors restricted to the paintable elements at the
// given traversal indices (nil means all). The snapshot is still taken before
// the first mutation so reset keeps working.
func (c *Colorizer) ApplyPathColors(target *etree.Element, opts PathOptions) bool {
	independent := c.cfg.IndependentColors
	if opts.IndependentColors != nil {
		independent = *opts.IndependentColors
	}
	return c.apply(target, opts.Indices, independent)
}

func (c *Colorizer) apply(target *etree.Element, indices []int, independent bool) bool {
	if err := validTarget(target); err != nil {
		c.log.Error("Invalid coloring target", zap.Error(err))
		c.emit(EventError, ColorError{Err: err, Index: -1})
		return false
	}

	id := c.ensureDocumentID(target)
	elements := collectPaintable(target)
	if len(elements) == 0 {
		c.log.Warn("No paintable elements found", zap.String("id", id))
		return false
	}

	// Snapshot before the first mutation; later calls apply on top of the
	// current tree without recapturing.
	c.ensureSnapshot(id, target)

	selected := indices
	if len(selected) == 0 {
		selected = make([]int, len(elements))
		for i := range elements {
			selected[i] = i
		}
	}

	var (
		errs      error
		processed int
	)
	for _, i := range selected {
		if i < 0 || i >= len(elements) {
			err := fmt.Errorf("element index %d out of range (have %d)", i, len(elements))
			errs = multierr.Append(errs, err)
			c.emit(EventError, ColorError{Err: err, Index: i})
			continue
		}
		if err := c.colorElement(target, elements[i], i, independent); err != nil {
			errs = multierr.Append(errs, err)
			c.emit(EventError, ColorError{Err: err, Element: elements[i], Index: i})
			continue
		}
		processed++
	}

	if errs != nil {
		c.log.Warn("Some elements could not be recolored", zap.String("id", id), zap.Error(errs))
	}
	if c.cfg.Debug {
		c.log.Debug("Coloring pass finished", zap.String("id", id), zap.Int("processed", processed), zap.Int("total", len(selected)))
	}
	c.emit(EventComplete, Complete{Processed: processed, Total: len(selected), Target: target})
	return true
}

// colorElement recolors the fill and stroke channels of one element. Fill is
// always evaluated first so a non-independent stroke has a fill value to
// reuse. Panics from unexpected tree shapes are converted into errors.
func (c *Colorizer) colorElement(root, el *etree.Element, index int, independent bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("element %d <%s>: %v", index, el.Tag, r)
		}
	}()

	var fillValue string
	if c.shouldColor(el, AttrFill) {
		if rand.Float64() < c.cfg.GradientProbability {
			grad, ref := c.RandomGradient(el.Tag)
			defsContainer(root).AddChild(grad)
			fillValue = ref
		} else {
			fillValue = c.RandomColor()
		}
		tgt := c.writeTarget(el, AttrFill)
		c.setPaint(tgt, AttrFill, fillValue)
		c.emit(EventColorApplied, ColorApplied{Element: tgt, Attribute: AttrFill, Color: fillValue, Index: index})
	}

	if c.shouldColor(el, AttrStroke) {
		strokeValue := fillValue
		if independent || strokeValue == "" {
			strokeValue = c.RandomColor()
		}
		tgt := c.writeTarget(el, AttrStroke)
		c.setPaint(tgt, AttrStroke, strokeValue)
		c.emit(EventColorApplied, ColorApplied{Element: tgt, Attribute: AttrStroke, Color: strokeValue, Index: index})
	}
	return nil
}

// setPaint writes the value as a presentation attribute and drops a
// conflicting inline style declaration which would otherwise override it.
func (c *Colorizer) setPaint(el *etree.Element, attr, value string) {
	el.CreateAttr(attr, value)

	style := el.SelectAttrValue(attrStyle, "")
	if _, ok := styleValue(style, attr); !ok {
		return
	}
	if rest := removeStyleProperty(style, attr); rest != "" {
		el.CreateAttr(attrStyle, rest)
	} else {
		el.RemoveAttr(attrStyle)
	}
}

// ResetColors restores target to the state recorded by the first apply.
// It returns false without emitting events when no snapshot exists for the
// target's identity. Records whose element no longer matches by position and
// tag are skipped (best-effort restore).
func (c *Colorizer) ResetColors(target *etree.Element) bool {
	if err := validTarget(target); err != nil {
		c.log.Error("Invalid reset target", zap.Error(err))
		return false
	}

	id := target.SelectAttrValue(attrID, "")
	snap, ok := c.snapshots[id]
	if id == "" || !ok {
		c.log.Warn("No saved state for target", zap.String("id", id))
		return false
	}

	elements := collectElements(target)
	skipped := 0
	for _, rec := range snap.Records {
		if rec.Index >= len(elements) || elements[rec.Index].Tag != rec.Tag {
			skipped++
			continue
		}
		el := elements[rec.Index]
		restoreAttr(el, AttrFill, rec.Fill)
		restoreAttr(el, AttrStroke, rec.Stroke)
		restoreAttr(el, attrStyle, rec.Style)
	}

	// Definitions are restored wholesale from a fresh copy so the snapshot
	// itself stays pristine for the next reset.
	defsIndex := 0
	if defs := target.SelectElement(tagDefs); defs != nil {
		defsIndex = defs.Index()
		target.RemoveChild(defs)
	}
	if snap.Defs != nil {
		target.InsertChildAt(defsIndex, snap.Defs.Copy())
	}

	if skipped > 0 {
		c.log.Warn("Partial restore, document structure changed", zap.String("id", id), zap.Int("skipped", skipped))
	}
	if c.cfg.Debug {
		c.log.Debug("Restored original colors", zap.String("id", id))
	}
	c.emit(EventReset, Reset{Target: target, ID: id})
	return true
}

// GetColorState computes per-element color flags and aggregate counts for
// target. It is a pure read: no mutation, no snapshot interaction. Returns
// nil when the target is not a valid <svg> element.
func (c *Colorizer) GetColorState(target *etree.Element) *ColorStateReport {
	if err := validTarget(target); err != nil {
		c.log.Error("Invalid state target", zap.Error(err))
		return nil
	}

	report := &ColorStateReport{ID: target.SelectAttrValue(attrID, "")}
	for i, el := range collectPaintable(target) {
		fill, _ := ownPaint(el, AttrFill)
		st := ElementColorState{
			Index:     i,
			Tag:       el.Tag,
			HasFill:   hasOwnPaint(el, AttrFill),
			HasStroke: hasOwnPaint(el, AttrStroke),
			HasGradient: strings.HasPrefix(strings.TrimSpace(fill), gradientRefPrefix) ||
				strings.HasPrefix(strings.TrimSpace(el.SelectAttrValue(AttrStroke, "")), gradientRefPrefix),
			InheritsPaint: inheritedPaintSource(el, AttrFill) != nil || inheritedPaintSource(el, AttrStroke) != nil,
		}
		report.Elements = append(report.Elements, st)
		report.TotalElements++
		if st.HasFill {
			report.FillElements++
		}
		if st.HasStroke {
			report.StrokeElements++
		}
		if st.HasGradient {
			report.GradientElements++
		}
		if st.InheritsPaint {
			report.InheritedElements++
		}
	}
	return report
}
