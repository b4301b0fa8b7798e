package svg

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Inline style handling. SVG elements may carry paint in a style attribute
// ("fill: red; stroke: none") which overrides the presentation attribute of
// the same name, so classification has to consult both.

type styleDecl struct {
	Property string
	Value    string
}

// parseStyleDecls tokenizes an inline style attribute value into ordered
// property declarations. Malformed input yields whatever declarations were
// recognized before the error.
func parseStyleDecls(style string) []styleDecl {
	if strings.TrimSpace(style) == "" {
		return nil
	}

	var decls []styleDecl
	p := css.NewParser(parse.NewInput(bytes.NewReader([]byte(style))), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar:
			var val strings.Builder
			for _, tok := range p.Values() {
				val.Write(tok.Data)
			}
			decls = append(decls, styleDecl{
				Property: strings.ToLower(string(data)),
				Value:    strings.TrimSpace(val.String()),
			})
		}
	}
}

// styleValue returns the value of property inside the inline style and
// whether it was declared at all. The last declaration wins.
func styleValue(style, property string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, d := range parseStyleDecls(style) {
		if d.Property == property {
			value, found = d.Value, true
		}
	}
	return value, found
}

// removeStyleProperty rebuilds the inline style without the given property.
// Returns an empty string when nothing remains.
func removeStyleProperty(style, property string) string {
	var kept []string
	for _, d := range parseStyleDecls(style) {
		if d.Property == property {
			continue
		}
		kept = append(kept, d.Property+": "+d.Value)
	}
	return strings.Join(kept, "; ")
}
