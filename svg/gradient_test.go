package svg

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestRandomGradient_Structure(t *testing.T) {
	c := New(Config{Palette: []string{"#111111", "#222222"}}, zap.NewNop())

	grad, ref := c.RandomGradient("path")

	if grad.Tag != "linearGradient" {
		t.Fatalf("gradient tag = %q, want linearGradient", grad.Tag)
	}
	id := grad.SelectAttrValue(attrID, "")
	if id == "" {
		t.Fatal("gradient must carry an id")
	}
	if ref != "url(#"+id+")" {
		t.Errorf("reference token = %q does not match gradient id %q", ref, id)
	}
	if grad.SelectAttrValue("x1", "") != "0%" || grad.SelectAttrValue("y2", "") != "100%" {
		t.Error("gradient must be oriented diagonally from 0%/0% to 100%/100%")
	}

	stops := grad.SelectElements("stop")
	if len(stops) != 2 {
		t.Fatalf("gradient has %d stops, want 2", len(stops))
	}
	if stops[0].SelectAttrValue("offset", "") != "0%" || stops[1].SelectAttrValue("offset", "") != "100%" {
		t.Error("stops must sit at 0% and 100%")
	}
	for i, stop := range stops {
		if color := stop.SelectAttrValue("stop-color", ""); color != "#111111" && color != "#222222" {
			t.Errorf("stop %d color = %q, not drawn from the palette", i, color)
		}
	}
}

func TestRandomGradient_UniqueReferences(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, ref := c.RandomGradient("seed")
		if seen[ref] {
			t.Fatalf("duplicate gradient reference %q for identical seeds", ref)
		}
		seen[ref] = true
	}
}

func TestRandomGradient_EmptySeed(t *testing.T) {
	c := New(Config{}, zap.NewNop())
	_, ref := c.RandomGradient("")
	if !strings.HasPrefix(ref, "url(#tint-grad-") {
		t.Errorf("reference token = %q, want the default seed", ref)
	}
}

func TestRandomGradient_ValidatorAppliesPerStop(t *testing.T) {
	c := New(Config{Palette: []string{"#111111"}}, zap.NewNop())
	c.SetColorValidator(func(string) bool { return false })

	grad, _ := c.RandomGradient("path")
	for i, stop := range grad.SelectElements("stop") {
		if color := stop.SelectAttrValue("stop-color", ""); color != fallbackColor {
			t.Errorf("stop %d color = %q, want the fallback for rejected samples", i, color)
		}
	}
}
