package dashboard

import (
	"fmt"
	"strings"

	"github.com/Sander124/pvs-tracker/internal/supply"
)

const (
	chartWidth   = 800.0
	chartHeight  = 300.0
	chartPadding = 10.0
)

// chartPolyline maps a series onto SVG polyline coordinates inside the
// fixed chart viewBox. Returns "" for series too small to draw a line.
func chartPolyline(series supply.Series) string {
	points := series.Points()
	if len(points) < 2 {
		return ""
	}

	minT := points[0].ObservedAt
	maxT := points[len(points)-1].ObservedAt
	span := maxT.Sub(minT)

	minV, maxV := points[0].TotalSupply, points[0].TotalSupply
	for _, p := range points[1:] {
		if p.TotalSupply < minV {
			minV = p.TotalSupply
		}
		if p.TotalSupply > maxV {
			maxV = p.TotalSupply
		}
	}

	innerW := chartWidth - 2*chartPadding
	innerH := chartHeight - 2*chartPadding

	var b strings.Builder
	for i, p := range points {
		x := chartPadding + innerW/2
		if span > 0 {
			x = chartPadding + innerW*float64(p.ObservedAt.Sub(minT))/float64(span)
		}
		// SVG y axis grows downward; flat series draws a centered line.
		y := chartPadding + innerH/2
		if maxV > minV {
			y = chartPadding + innerH*(1-(p.TotalSupply-minV)/(maxV-minV))
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
