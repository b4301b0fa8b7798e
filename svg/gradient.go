package svg

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// gradientRefPrefix marks a paint value referencing a definitions entry.
const gradientRefPrefix = "url("

// RandomGradient builds a detached two-stop linear gradient definition (0%
// first color, 100% second color, oriented diagonally) and the paint value
// referencing it. The embedded identifier combines the caller supplied seed
// with a monotonic counter and a timestamp, so two calls with the same seed
// still produce distinct references.
func (c *Colorizer) RandomGradient(seed string) (*etree.Element, string) {
	first := c.RandomColor()
	second := c.RandomColor()

	seed = strings.TrimSpace(seed)
	if seed == "" {
		seed = "tint"
	}
	id := fmt.Sprintf("%s-grad-%d-%d", seed, c.gradientSeq.Add(1), time.Now().UnixNano())

	grad := etree.NewElement("linearGradient")
	grad.CreateAttr(attrID, id)
	grad.CreateAttr("x1", "0%")
	grad.CreateAttr("y1", "0%")
	grad.CreateAttr("x2", "100%")
	grad.CreateAttr("y2", "100%")

	start := grad.CreateElement("stop")
	start.CreateAttr("offset", "0%")
	start.CreateAttr("stop-color", first)

	end := grad.CreateElement("stop")
	end.CreateAttr("offset", "100%")
	end.CreateAttr("stop-color", second)

	return grad, gradientRefPrefix + "#" + id + ")"
}
