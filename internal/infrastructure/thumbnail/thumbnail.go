// Package thumbnail renders top-down preview images of point clouds.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lidarhub/potree-api/internal/infrastructure/lasfile"
)

// DefaultSize is the rendered thumbnail edge length in pixels.
const DefaultSize = 512

// ErrNoPoints indicates there was nothing to render.
var ErrNoPoints = errors.New("no points to render")

// Renderer produces PNG previews from sampled LAS points.
type Renderer struct {
	size int
}

// NewRenderer creates a renderer with the given square pixel size.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size}
}

// Render draws the points as a top-down scatter, shaded by elevation,
// and returns the encoded PNG.
func (r *Renderer) Render(points []lasfile.Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	xys := make(plotter.XYs, len(points))
	minZ, maxZ := points[0].Z, points[0].Z
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
		if pt.Z < minZ {
			minZ = pt.Z
		}
		if pt.Z > maxZ {
			maxZ = pt.Z
		}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("build scatter: %w", err)
	}
	zRange := maxZ - minZ
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  elevationColor(points[i].Z, minZ, zRange),
			Radius: vg.Points(0.75),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.Black
	p.Add(scatter)

	// Square canvas sized for the target pixel edge at the default 96 DPI.
	edge := vg.Length(r.size) * vg.Inch / 96
	writer, err := p.WriterTo(edge, edge, "png")
	if err != nil {
		return nil, fmt.Errorf("render thumbnail: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// elevationColor shades low points blue through green to red at the top.
func elevationColor(z, minZ, zRange float64) color.Color {
	if zRange <= 0 {
		return color.RGBA{R: 0, G: 200, B: 80, A: 255}
	}
	t := (z - minZ) / zRange
	switch {
	case t < 0.5:
		frac := t * 2
		return color.RGBA{
			R: 0,
			G: uint8(80 + 175*frac),
			B: uint8(200 * (1 - frac)),
			A: 255,
		}
	default:
		frac := (t - 0.5) * 2
		return color.RGBA{
			R: uint8(255 * frac),
			G: uint8(255 * (1 - 0.7*frac)),
			B: 0,
			A: 255,
		}
	}
}
