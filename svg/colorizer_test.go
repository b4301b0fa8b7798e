package svg

import (
	"slices"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

func serialize(t *testing.T, doc *etree.Document) string {
	t.Helper()
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("failed to serialize document: %v", err)
	}
	return s
}

func paletteContains(palette []string, v string) bool {
	return slices.Contains(palette, v)
}

func TestApplyColors_InvalidTarget(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	var errEvent *ColorError
	c.On(EventError, func(payload any) {
		if e, ok := payload.(ColorError); ok {
			errEvent = &e
		}
	})

	t.Run("nil target", func(t *testing.T) {
		if c.ApplyColors(nil, ApplyOptions{}) {
			t.Fatal("ApplyColors(nil) must fail")
		}
		if errEvent == nil {
			t.Fatal("expected an error event")
		}
	})

	t.Run("wrong root kind", func(t *testing.T) {
		_, root := parseSVG(t, `<div><rect/></div>`)
		if c.ApplyColors(root, ApplyOptions{}) {
			t.Fatal("non-svg target must fail")
		}
	})

	t.Run("no paintable elements", func(t *testing.T) {
		_, root := parseSVG(t, `<svg><g/></svg>`)
		if c.ApplyColors(root, ApplyOptions{}) {
			t.Fatal("target without paintable elements must fail")
		}
	})
}

func TestApplyColors_LineIconKeepsSilhouette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg id="icon"><path fill="none" stroke="#000" d="M0 0"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	el := firstShape(t, root)
	if got := el.SelectAttrValue(AttrFill, ""); got != "none" {
		t.Errorf("fill = %q, want untouched sentinel \"none\"", got)
	}
	stroke := el.SelectAttrValue(AttrStroke, "")
	if stroke == "#000" || !paletteContains(cfg.Palette, stroke) {
		t.Errorf("stroke = %q, want a fresh palette color", stroke)
	}
}

func TestApplyColors_ColorlessShapeGetsFillOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg><circle cx="5" cy="5" r="5"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	el := firstShape(t, root)
	if fill := el.SelectAttrValue(AttrFill, ""); !paletteContains(cfg.Palette, fill) {
		t.Errorf("fill = %q, want a palette color", fill)
	}
	if el.SelectAttr(AttrStroke) != nil {
		t.Error("stroke must not be synthesized for a colorless shape")
	}
}

func TestApplyColors_GroupInheritance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg><g fill="#333"><rect width="10" height="10"/><rect x="10" width="10" height="10"/></g></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	group := root.SelectElement("g")
	groupFill := group.SelectAttrValue(AttrFill, "")
	if groupFill == "#333" || !paletteContains(cfg.Palette, groupFill) {
		t.Errorf("group fill = %q, want a fresh palette color", groupFill)
	}
	for i, child := range group.ChildElements() {
		if child.SelectAttr(AttrFill) != nil {
			t.Errorf("child %d: own fill attribute must stay absent, inheritance does the coloring", i)
		}
	}
}

func TestApplyColors_StrokeReusesFill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	cfg.IndependentColors = false
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg><rect fill="#111" stroke="#222" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	el := firstShape(t, root)
	fill := el.SelectAttrValue(AttrFill, "")
	stroke := el.SelectAttrValue(AttrStroke, "")
	if fill != stroke {
		t.Errorf("stroke %q must reuse fill %q when colors are not independent", stroke, fill)
	}
}

func TestApplyColors_GradientFill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 1
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg><rect fill="#111" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	el := firstShape(t, root)
	fill := el.SelectAttrValue(AttrFill, "")
	if !strings.HasPrefix(fill, "url(#") {
		t.Fatalf("fill = %q, want a gradient reference", fill)
	}

	defs := root.SelectElement(tagDefs)
	if defs == nil {
		t.Fatal("defs container must be created for the gradient")
	}
	if root.ChildElements()[0] != defs {
		t.Error("created defs container must be the first child of the root")
	}
	id := strings.TrimSuffix(strings.TrimPrefix(fill, "url(#"), ")")
	found := false
	for _, grad := range defs.SelectElements("linearGradient") {
		if grad.SelectAttrValue(attrID, "") == id {
			found = true
		}
	}
	if !found {
		t.Errorf("gradient %q not present in defs", id)
	}
}

func TestApplyColors_InlineStyleConflictDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg><rect style="fill: #123456; opacity: 0.5" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	el := firstShape(t, root)
	style := el.SelectAttrValue(attrStyle, "")
	if _, ok := styleValue(style, AttrFill); ok {
		t.Errorf("style = %q, conflicting fill declaration must be dropped", style)
	}
	if _, ok := styleValue(style, "opacity"); !ok {
		t.Errorf("style = %q, unrelated declarations must survive", style)
	}
	if fill := el.SelectAttrValue(AttrFill, ""); !paletteContains(cfg.Palette, fill) {
		t.Errorf("fill = %q, want a palette color", fill)
	}
}

func TestApplyThenReset_RoundTrip(t *testing.T) {
	const source = `<svg id="icon" xmlns="http://www.w3.org/2000/svg"><defs><linearGradient id="g1"><stop offset="0%" stop-color="#fff"/></linearGradient></defs><g fill="#333"><rect width="10" height="10"/></g><path fill="url(#g1)" stroke="#000" style="stroke-width: 2" d="M0 0"/><circle r="5"/></svg>`

	cfg := DefaultConfig()
	cfg.GradientProbability = 1
	c := New(cfg, zap.NewNop())

	doc, root := parseSVG(t, source)
	original := serialize(t, doc)

	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}
	if serialize(t, doc) == original {
		t.Fatal("apply must mutate the document")
	}
	// second apply on top of the recolored tree must not recapture
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("second ApplyColors failed")
	}

	if !c.ResetColors(root) {
		t.Fatal("ResetColors failed")
	}
	if got := serialize(t, doc); got != original {
		t.Errorf("reset did not restore the original document:\n got: %s\nwant: %s", got, original)
	}

	// snapshot survives reset, the cycle works again
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors after reset failed")
	}
	if !c.ResetColors(root) {
		t.Fatal("ResetColors after second apply failed")
	}
	if got := serialize(t, doc); got != original {
		t.Errorf("second reset did not restore the original document: %s", got)
	}
}

func TestResetColors_WithoutApply(t *testing.T) {
	c := New(Config{}, zap.NewNop())
	doc, root := parseSVG(t, `<svg id="never-applied"><rect fill="#f00" width="10" height="10"/></svg>`)
	before := serialize(t, doc)

	resetSeen := false
	c.On(EventReset, func(any) { resetSeen = true })

	if c.ResetColors(root) {
		t.Fatal("ResetColors without a prior apply must fail")
	}
	if resetSeen {
		t.Error("no reset event may be emitted on failure")
	}
	if serialize(t, doc) != before {
		t.Error("failed reset must not mutate the document")
	}
}

func TestResetColors_SkipsMismatchedRecords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg id="icon"><rect fill="#f00" width="10" height="10"/><circle fill="#0f0" r="5"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	// structure change: drop the first shape so indices no longer line up
	root.RemoveChild(root.SelectElement("rect"))

	if !c.ResetColors(root) {
		t.Fatal("best-effort reset must still succeed")
	}
	// the circle now sits at index 0 where a rect was recorded - its record
	// is skipped and the recolored value stays
	circle := root.SelectElement("circle")
	if got := circle.SelectAttrValue(AttrFill, ""); got == "#0f0" {
		t.Error("mismatched record must be skipped, not restored")
	}
}

func TestApplyPathColors_SelectedIndices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg id="icon"><rect fill="#111" width="10" height="10"/><rect fill="#222" x="10" width="10" height="10"/></svg>`)
	if !c.ApplyPathColors(root, PathOptions{Indices: []int{1}}) {
		t.Fatal("ApplyPathColors failed")
	}

	shapes := collectPaintable(root)
	if got := shapes[0].SelectAttrValue(AttrFill, ""); got != "#111" {
		t.Errorf("unselected element recolored: fill = %q", got)
	}
	if got := shapes[1].SelectAttrValue(AttrFill, ""); got == "#222" {
		t.Error("selected element was not recolored")
	}

	// snapshot was still taken, reset restores the selective change
	if !c.ResetColors(root) {
		t.Fatal("ResetColors failed")
	}
	if got := shapes[1].SelectAttrValue(AttrFill, ""); got != "#222" {
		t.Errorf("reset after selective apply: fill = %q, want #222", got)
	}
}

func TestApplyPathColors_OutOfRangeIndex(t *testing.T) {
	c := New(Config{GradientProbability: 0}, zap.NewNop())

	var errs []ColorError
	var complete *Complete
	c.On(EventError, func(payload any) {
		if e, ok := payload.(ColorError); ok {
			errs = append(errs, e)
		}
	})
	c.On(EventComplete, func(payload any) {
		if e, ok := payload.(Complete); ok {
			complete = &e
		}
	})

	_, root := parseSVG(t, `<svg><rect width="10" height="10"/></svg>`)
	if !c.ApplyPathColors(root, PathOptions{Indices: []int{0, 7}}) {
		t.Fatal("partial success must still report success")
	}
	if len(errs) != 1 || errs[0].Index != 7 {
		t.Fatalf("expected one error event for index 7, got %+v", errs)
	}
	if complete == nil || complete.Processed != 1 || complete.Total != 2 {
		t.Fatalf("complete = %+v, want processed 1 of 2", complete)
	}
}

func TestApplyColors_EmitsPerWriteEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	var applied []ColorApplied
	c.On(EventColorApplied, func(payload any) {
		if e, ok := payload.(ColorApplied); ok {
			applied = append(applied, e)
		}
	})

	_, root := parseSVG(t, `<svg><rect fill="#111" stroke="#222" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	if len(applied) != 2 {
		t.Fatalf("expected 2 colorApplied events (fill and stroke), got %d", len(applied))
	}
	if applied[0].Attribute != AttrFill || applied[1].Attribute != AttrStroke {
		t.Errorf("fill must be processed before stroke: %+v", applied)
	}
}

func TestGetColorState(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	t.Run("gradient reference", func(t *testing.T) {
		doc, root := parseSVG(t, `<svg><path fill="url(#g1)" d="M0 0"/></svg>`)
		before := serialize(t, doc)

		report := c.GetColorState(root)
		if report == nil {
			t.Fatal("GetColorState returned nil for a valid target")
		}
		if report.GradientElements != 1 {
			t.Errorf("GradientElements = %d, want 1", report.GradientElements)
		}
		if serialize(t, doc) != before {
			t.Error("GetColorState must not mutate the document")
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		_, root := parseSVG(t, `<svg><g stroke="#000"><rect fill="#f00" width="1" height="1"/></g><circle r="5"/></svg>`)
		report := c.GetColorState(root)
		if report.TotalElements != 2 {
			t.Fatalf("TotalElements = %d, want 2", report.TotalElements)
		}
		if report.FillElements != 1 || report.StrokeElements != 0 || report.InheritedElements != 1 {
			t.Errorf("unexpected aggregates: %+v", report)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		if c.GetColorState(nil) != nil {
			t.Error("GetColorState(nil) must return nil")
		}
	})
}

func TestClearAllState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zap.NewNop())

	_, root := parseSVG(t, `<svg id="icon"><rect fill="#f00" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}
	if c.GetStats().SavedStates != 1 {
		t.Fatal("expected one saved snapshot")
	}

	c.ClearAllState()
	if c.GetStats().SavedStates != 0 {
		t.Error("ClearAllState must drop all snapshots")
	}
	if c.ResetColors(root) {
		t.Error("reset after ClearAllState must fail")
	}
}

func TestEnsureDocumentID(t *testing.T) {
	c := New(Config{GradientProbability: 0}, zap.NewNop())

	_, root := parseSVG(t, `<svg><rect width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}

	id := root.SelectAttrValue(attrID, "")
	if id == "" {
		t.Fatal("a document identity must be synthesized and assigned")
	}

	// reset finds the snapshot through the assigned identity
	if !c.ResetColors(root) {
		t.Error("ResetColors must find the snapshot via the synthesized id")
	}

	_, other := parseSVG(t, `<svg><rect width="10" height="10"/></svg>`)
	if !c.ApplyColors(other, ApplyOptions{}) {
		t.Fatal("ApplyColors failed")
	}
	if otherID := other.SelectAttrValue(attrID, ""); otherID == id {
		t.Error("synthesized identities must be unique per document")
	}
}

func TestGetStats(t *testing.T) {
	c := New(Config{}, zap.NewNop())
	c.On(EventComplete, func(any) {})
	c.On(EventComplete, func(any) {})
	c.On(EventReset, func(any) {})

	stats := c.GetStats()
	if stats.Version != Version {
		t.Errorf("Version = %q, want %q", stats.Version, Version)
	}
	if stats.Listeners[EventComplete] != 2 || stats.Listeners[EventReset] != 1 {
		t.Errorf("unexpected listener counts: %+v", stats.Listeners)
	}
	if len(stats.Config.Palette) != 20 {
		t.Errorf("default palette size = %d, want 20", len(stats.Config.Palette))
	}
}
