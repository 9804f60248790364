package export

import (
	"fmt"
	"strings"
)

// ResponseToSVG renders a recorded response as a standalone SVG: the
// process value as a path, the setpoint as a dashed reference line.
func ResponseToSVG(times, values []float64, setpoint float64, width, height int) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	if setpoint < minY {
		minY = setpoint
	}
	if setpoint > maxY {
		maxY = setpoint
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	minX := times[0]
	rangeX := times[len(times)-1] - minX
	if rangeX == 0 {
		rangeX = 1
	}

	toX := func(t float64) float64 { return (t - minX) / rangeX * float64(width) }
	toY := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	spY := toY(setpoint)
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#888888" stroke-width="1" stroke-dasharray="6,4"/>
`, spY, width, spY))

	sb.WriteString(`<path fill="none" stroke="#cc7832" stroke-width="1.5" d="M`)
	for i := range times {
		x := toX(times[i])
		y := toY(values[i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
