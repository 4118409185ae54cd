// Package sanitize is the security boundary for author supplied markup. Its
// output is safe to embed directly in rendered HTML.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	paintValue    = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|rgba?\([0-9.,%\s]+\))$`)
	geometryValue = regexp.MustCompile(`^[a-zA-Z0-9.,\s()+-]*$`)
	lengthValue   = regexp.MustCompile(`^[0-9.]+(%|px|em)?$`)
)

// svgElements are the inline vector-graphic elements kept by the policy.
// Tag names are lowercase because the HTML tokenizer lowercases them.
var svgElements = []string{
	"svg", "g", "path", "rect", "circle", "ellipse", "line", "polyline", "polygon",
	"text", "tspan", "title", "desc", "defs", "lineargradient", "stop",
}

// Policy returns the shared sanitizing policy: bluemonday's user generated
// content policy plus inline SVG geometry and paint. Scripts, event handlers,
// foreign references and style attributes are always removed.
var Policy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowElements("video", "figure", "figcaption")
	p.AllowAttrs("src", "poster").OnElements("video")
	p.AllowAttrs("controls").Matching(regexp.MustCompile(`^(controls)?$`)).OnElements("video")
	p.AllowURLSchemes("https", "http", "mailto")

	p.AllowElements(svgElements...)
	p.AllowAttrs("viewbox", "preserveaspectratio").Matching(geometryValue).OnElements("svg")
	p.AllowAttrs("xmlns").Matching(regexp.MustCompile(`^http://www\.w3\.org/2000/svg$`)).OnElements("svg")
	p.AllowAttrs("width", "height", "x", "y", "x1", "y1", "x2", "y2",
		"cx", "cy", "r", "rx", "ry", "offset", "font-size", "stroke-width", "opacity").
		Matching(lengthValue).OnElements(svgElements...)
	p.AllowAttrs("d", "points", "transform").Matching(geometryValue).OnElements(svgElements...)
	p.AllowAttrs("fill", "stroke", "stop-color").Matching(paintValue).OnElements(svgElements...)
	p.AllowAttrs("text-anchor").Matching(regexp.MustCompile(`^(start|middle|end)$`)).OnElements("text", "tspan")
	return p
})

// SanitizeHTML strips executable content from raw and returns markup that is
// safe to inject.
func SanitizeHTML(raw string) string {
	return Policy().Sanitize(raw)
}

// ContainsSVG reports whether markup embeds an inline vector graphic.
func ContainsSVG(markup string) bool {
	return strings.Contains(strings.ToLower(markup), "<svg")
}
