package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ljforce/internal/system"
)

type Point struct {
	X, Y float64
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(points []Point) bounds {
	b := bounds{points[0].X, points[0].X, points[0].Y, points[0].Y}
	for _, p := range points {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(p Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// CurveSVG draws points as a polyline with a dashed zero axis when y
// changes sign.
func CurveSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	b := boundsOf(points)

	var sb strings.Builder
	header(&sb, width, height)

	if b.minY < 0 && b.maxY > 0 {
		_, y0 := b.project(Point{0, 0}, width, height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-dasharray="4,4"/>
`, y0, width, y0))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		x, y := b.project(p, width, height)
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

// ParticlesSVG projects local particles onto the xy plane. Dot brightness
// scales with force magnitude; non-finite forces are drawn red.
func ParticlesSVG(sys *system.System, width, height int) string {
	n := sys.NLocal
	if n == 0 {
		return ""
	}

	points := make([]Point, n)
	maxMag := 0.0
	for i := 0; i < n; i++ {
		points[i] = Point{sys.X[i][0], sys.X[i][1]}
		if f := sys.F[i]; f.IsValid() {
			maxMag = math.Max(maxMag, f.Norm())
		}
	}

	b := boundsOf(points)

	var sb strings.Builder
	header(&sb, width, height)

	for i, p := range points {
		x, y := b.project(p, width, height)
		fill := "#ff4444"
		if f := sys.F[i]; f.IsValid() {
			level := 0.25
			if maxMag > 0 {
				level += 0.75 * f.Norm() / maxMag
			}
			fill = fmt.Sprintf("#00%02x%02x", int(level*0xcc), int(level*0xff))
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s" fill-opacity="0.6"/>
`, x, y, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
