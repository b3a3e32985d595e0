package export

import (
	"strconv"

	"github.com/flosch/pongo2/v6"
)

// The surface shell is written into every isolated surface before content
// is injected. Values are trusted configuration, so they bypass escaping
// inside the style element where entities are not decoded.
const surfaceShellSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{% if font_css_url %}<link href="{{ font_css_url }}" rel="stylesheet">{% endif %}
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  background: {{ background|safe }};
  color: {{ color|safe }};
  font-family: {{ font_family|safe }};
  width: {{ width }}px;
  min-height: {{ height }}px;
  overflow: visible;
}
#content-wrapper { width: {{ width }}px; background: {{ background|safe }}; }
#{{ container_id }} {
  width: 100%;
  background: {{ background|safe }};
  padding: {{ padding|safe }};
  font-family: {{ font_family|safe }};
  line-height: {{ line_height }};
  font-size: {{ font_size }}px;
  color: {{ color|safe }};
}
</style>
</head>
<body>
<div id="content-wrapper"><div id="{{ container_id }}"></div></div>
</body>
</html>
`

var surfaceShell = pongo2.Must(pongo2.FromString(surfaceShellSource))

// RenderSurfaceShell renders the minimal document loaded into an isolated
// surface of width x height CSS pixels.
func RenderSurfaceShell(typo Typography, containerID string, width, height int) (string, error) {
	if containerID == "" {
		containerID = DefaultContentContainerID
	}
	return surfaceShell.Execute(pongo2.Context{
		"font_css_url": typo.FontCSSURL,
		"font_family":  typo.FontFamily,
		"font_size":    typo.FontSizePx,
		"line_height":  strconv.FormatFloat(typo.LineHeight, 'f', -1, 64),
		"padding":      typo.Padding,
		"color":        typo.Color,
		"background":   typo.Background,
		"container_id": containerID,
		"width":        width,
		"height":       height,
	})
}
