package discart

import (
	"math"
	"math/rand"
)

// Element is one bold graphic shape drawn in black over the white disc.
// Elements report membership per pixel so they can be rasterized without a
// vector backend.
type Element interface {
	Contains(x, y float64) bool
}

// LineElement is a thick diagonal line spanning the disc.
type LineElement struct {
	StartX, StartY float64
	EndX, EndY     float64
	Thickness      float64
}

func (e LineElement) Contains(x, y float64) bool {
	dx := e.EndX - e.StartX
	dy := e.EndY - e.StartY
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(x-e.StartX, y-e.StartY) <= e.Thickness/2
	}
	t := ((x-e.StartX)*dx + (y-e.StartY)*dy) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	px := e.StartX + t*dx
	py := e.StartY + t*dy
	return math.Hypot(x-px, y-py) <= e.Thickness/2
}

// ArcElement is a curved stroke sweeping across the disc.
type ArcElement struct {
	CenterX, CenterY float64
	Radius           float64
	StartAngle       float64 // degrees, clockwise from 3 o'clock
	EndAngle         float64
	Thickness        float64
}

func (e ArcElement) Contains(x, y float64) bool {
	dx := x - e.CenterX
	dy := y - e.CenterY
	dist := math.Hypot(dx, dy)
	if math.Abs(dist-e.Radius) > e.Thickness/2 {
		return false
	}
	return angleWithin(math.Atan2(dy, dx)*180/math.Pi, e.StartAngle, e.EndAngle)
}

// WedgeElement is a filled pie slice cut through the disc.
type WedgeElement struct {
	CenterX, CenterY float64
	Radius           float64
	StartAngle       float64
	EndAngle         float64
}

func (e WedgeElement) Contains(x, y float64) bool {
	dx := x - e.CenterX
	dy := y - e.CenterY
	if math.Hypot(dx, dy) > e.Radius {
		return false
	}
	return angleWithin(math.Atan2(dy, dx)*180/math.Pi, e.StartAngle, e.EndAngle)
}

// CircleElement is a large offset ring intersecting the disc edge.
type CircleElement struct {
	CenterX, CenterY float64
	Radius           float64
	Thickness        float64
}

func (e CircleElement) Contains(x, y float64) bool {
	dist := math.Hypot(x-e.CenterX, y-e.CenterY)
	return math.Abs(dist-e.Radius) <= e.Thickness/2
}

func angleWithin(angle, start, end float64) bool {
	norm := func(a float64) float64 {
		a = math.Mod(a, 360)
		if a < 0 {
			a += 360
		}
		return a
	}
	angle = norm(angle)
	start = norm(start)
	sweep := end - start
	offset := norm(angle - start)
	return offset <= sweep
}

// NewLine generates a diagonal line spanning the disc.
func NewLine(rng *rand.Rand, discRadius float64, cx, cy float64) LineElement {
	angleDeg := 15 + rng.Float64()*60
	if rng.Float64() > 0.5 {
		angleDeg = -angleDeg
	}
	angle := angleDeg * math.Pi / 180
	thickness := float64(25 + rng.Intn(31))

	// Extends past the disc so the stroke always cuts edge to edge.
	length := discRadius * 1.5
	dx := math.Cos(angle) * length
	dy := math.Sin(angle) * length
	return LineElement{
		StartX:    cx - dx,
		StartY:    cy - dy,
		EndX:      cx + dx,
		EndY:      cy + dy,
		Thickness: thickness,
	}
}

// NewArc generates a sweeping arc offset from the disc center.
func NewArc(rng *rand.Rand, discRadius float64, cx, cy float64) ArcElement {
	arcRadius := discRadius * (0.8 + rng.Float64()*0.6)
	offsetAngle := rng.Float64() * 360 * math.Pi / 180
	offsetDist := discRadius * (0.3 + rng.Float64()*0.4)
	startAngle := rng.Float64() * 180
	sweep := 60 + rng.Float64()*60
	thickness := float64(20 + rng.Intn(31))
	return ArcElement{
		CenterX:    cx + math.Cos(offsetAngle)*offsetDist,
		CenterY:    cy + math.Sin(offsetAngle)*offsetDist,
		Radius:     arcRadius,
		StartAngle: startAngle,
		EndAngle:   startAngle + sweep,
		Thickness:  thickness,
	}
}

// NewWedge generates a sharp pie slice through the disc.
func NewWedge(rng *rand.Rand, discRadius float64, cx, cy float64) WedgeElement {
	startAngle := rng.Float64() * 360
	opening := 15 + rng.Float64()*30
	return WedgeElement{
		CenterX:    cx,
		CenterY:    cy,
		Radius:     discRadius * 1.1,
		StartAngle: startAngle,
		EndAngle:   startAngle + opening,
	}
}

// NewCircle generates a large ring intersecting the disc edge.
func NewCircle(rng *rand.Rand, discRadius float64, cx, cy float64) CircleElement {
	circleRadius := discRadius * (0.4 + rng.Float64()*0.4)
	offsetAngle := rng.Float64() * 360 * math.Pi / 180
	offsetDist := discRadius * (0.4 + rng.Float64()*0.3)
	thickness := float64(15 + rng.Intn(26))
	return CircleElement{
		CenterX:   cx + math.Cos(offsetAngle)*offsetDist,
		CenterY:   cy + math.Sin(offsetAngle)*offsetDist,
		Radius:    circleRadius,
		Thickness: thickness,
	}
}

// RandomElement picks an element for the seed. Diagonal lines dominate; the
// other shapes appear occasionally for variety.
func RandomElement(seed int64, discRadius float64, cx, cy float64) Element {
	rng := rand.New(rand.NewSource(seed))
	choice := rng.Float64()
	switch {
	case choice < 0.80:
		return NewLine(rng, discRadius, cx, cy)
	case choice < 0.90:
		return NewArc(rng, discRadius, cx, cy)
	case choice < 0.95:
		return NewWedge(rng, discRadius, cx, cy)
	default:
		return NewCircle(rng, discRadius, cx, cy)
	}
}
