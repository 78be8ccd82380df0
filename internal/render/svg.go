package render

import (
	"fmt"
	"strings"

	"github.com/shadyrajab/chaos/internal/pendulum"
)

// TipTraceSVG draws the path of the second mass for both runs as SVG
// polylines, baseline first so the perturbed trace overlays it.
func TipTraceSVG(baseline, perturbed []pendulum.Frame, width, height int) string {
	if len(baseline) < 2 {
		return ""
	}

	minX, maxX := baseline[0].X2, baseline[0].X2
	minY, maxY := baseline[0].Y2, baseline[0].Y2
	bound := func(frames []pendulum.Frame) {
		for _, f := range frames {
			if f.X2 < minX {
				minX = f.X2
			}
			if f.X2 > maxX {
				maxX = f.X2
			}
			if f.Y2 < minY {
				minY = f.Y2
			}
			if f.Y2 > maxY {
				maxY = f.Y2
			}
		}
	}
	bound(baseline)
	bound(perturbed)

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath := func(frames []pendulum.Frame, stroke string) {
		if len(frames) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for i, f := range frames {
			x := (f.X2 - minX) / rangeX * float64(width)
			y := float64(height) - (f.Y2-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	writePath(baseline, "#00ccff")
	writePath(perturbed, "#ff5555")

	sb.WriteString("</svg>")
	return sb.String()
}
