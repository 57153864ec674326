package rtiform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"
)

// SignatureCapture is a source of signature images: a freehand pad, a
// photo upload or anything else that can produce an encoded raster.
type SignatureCapture interface {
	// Clear discards the captured signature.
	Clear()
	// IsEmpty reports whether nothing has been captured.
	IsEmpty() bool
	// ToImage returns the captured signature as an encoded image.
	ToImage() (SignatureAsset, error)
	// LoadFromImage replaces the capture with an existing image.
	LoadFromImage(SignatureAsset) error
}

// Compile-time interface checks.
var (
	_ SignatureCapture = (*UploadCapture)(nil)
	_ SignatureCapture = (*StrokePad)(nil)
)

// UploadCapture holds a signature photographed or scanned by the applicant.
type UploadCapture struct {
	asset SignatureAsset
}

// Clear discards the uploaded image.
func (u *UploadCapture) Clear() { u.asset = SignatureAsset{} }

// IsEmpty reports whether no image has been uploaded.
func (u *UploadCapture) IsEmpty() bool { return u.asset.IsEmpty() }

// ToImage returns the uploaded image.
func (u *UploadCapture) ToImage() (SignatureAsset, error) {
	if u.asset.IsEmpty() {
		return SignatureAsset{}, ErrEmptySignature
	}
	return u.asset.Clone(), nil
}

// LoadFromImage stores a copy of asset after checking it decodes.
func (u *UploadCapture) LoadFromImage(asset SignatureAsset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	u.asset = asset.Clone()
	return nil
}

// LoadFile reads and stores a PNG or JPEG file.
func (u *UploadCapture) LoadFile(path string) error {
	asset, err := LoadSignatureFile(path)
	if err != nil {
		return err
	}
	u.asset = asset
	return nil
}

// Point is a position on a StrokePad in pixels from the top-left corner.
type Point struct {
	X, Y float64
}

// StrokePad pad defaults, sized to the 40x20 mm signature box at 10 px/mm.
const (
	DefaultPadWidth  = 400
	DefaultPadHeight = 200
	DefaultPenWidth  = 2.5
)

// StrokePad collects freehand strokes and rasterizes them as black ink on
// white. Safe for concurrent use.
type StrokePad struct {
	mu         sync.Mutex
	width      int
	height     int
	pen        float64
	background image.Image
	strokes    [][]Point
	drawing    bool
}

// NewStrokePad creates a pad of width×height pixels. Non-positive sizes use defaults.
func NewStrokePad(width, height int) *StrokePad {
	if width <= 0 {
		width = DefaultPadWidth
	}
	if height <= 0 {
		height = DefaultPadHeight
	}
	return &StrokePad{width: width, height: height, pen: DefaultPenWidth}
}

// SetPenWidth sets the stroke diameter in pixels.
func (p *StrokePad) SetPenWidth(w float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w > 0 {
		p.pen = w
	}
}

// BeginStroke starts a new stroke at pt.
func (p *StrokePad) BeginStroke(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = append(p.strokes, []Point{pt})
	p.drawing = true
}

// LineTo extends the current stroke. Without an open stroke it starts one.
func (p *StrokePad) LineTo(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		p.strokes = append(p.strokes, []Point{pt})
		p.drawing = true
		return
	}
	last := len(p.strokes) - 1
	p.strokes[last] = append(p.strokes[last], pt)
}

// EndStroke closes the current stroke.
func (p *StrokePad) EndStroke() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawing = false
}

// AddStroke appends a complete stroke.
func (p *StrokePad) AddStroke(points ...Point) {
	if len(points) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = append(p.strokes, append([]Point(nil), points...))
	p.drawing = false
}

// Clear removes all strokes and any loaded background.
func (p *StrokePad) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = nil
	p.background = nil
	p.drawing = false
}

// IsEmpty reports whether the pad has no strokes and no loaded image.
func (p *StrokePad) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strokes) == 0 && p.background == nil
}

// LoadFromImage draws asset onto the pad as a background, replacing any strokes.
// The image is placed at the top-left corner and clipped to the pad.
func (p *StrokePad) LoadFromImage(asset SignatureAsset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.background = img
	p.strokes = nil
	p.drawing = false
	return nil
}

// ToImage rasterizes the pad to PNG.
func (p *StrokePad) ToImage() (SignatureAsset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.strokes) == 0 && p.background == nil {
		return SignatureAsset{}, ErrEmptySignature
	}

	canvas := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	if p.background != nil {
		draw.Draw(canvas, canvas.Bounds(), p.background, p.background.Bounds().Min, draw.Over)
	}

	radius := p.pen / 2
	for _, stroke := range p.strokes {
		if len(stroke) == 1 {
			stamp(canvas, stroke[0], radius)
			continue
		}
		for i := 1; i < len(stroke); i++ {
			segment(canvas, stroke[i-1], stroke[i], radius)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return SignatureAsset{}, fmt.Errorf("encoding signature: %w", err)
	}
	return SignatureAsset{Data: buf.Bytes(), Format: ImagePNG}, nil
}

// segment stamps discs along a line at half-pixel steps. Only the part of
// the line within radius of the canvas is stepped.
func segment(img *image.RGBA, a, b Point, radius float64) {
	bounds := img.Bounds()
	a, b, ok := clipSegment(a, b,
		float64(bounds.Min.X)-radius, float64(bounds.Min.Y)-radius,
		float64(bounds.Max.X)+radius, float64(bounds.Max.Y)+radius)
	if !ok {
		return
	}
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(dist*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stamp(img, Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, radius)
	}
}

// clipSegment clips a-b to the rectangle [minX,maxX]x[minY,maxY]
// (Liang-Barsky). ok is false when no part of the segment is inside or a
// point is not finite.
func clipSegment(a, b Point, minX, minY, maxX, maxY float64) (ca, cb Point, ok bool) {
	if !finite(a) || !finite(b) {
		return a, b, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	return Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// stamp paints a filled disc centred on c.
func stamp(img *image.RGBA, c Point, radius float64) {
	ink := color.RGBA{A: 0xff}
	bounds := img.Bounds()
	if !finite(c) || c.X+radius < float64(bounds.Min.X) || c.X-radius > float64(bounds.Max.X) ||
		c.Y+radius < float64(bounds.Min.Y) || c.Y-radius > float64(bounds.Max.Y) {
		return
	}
	r2 := radius * radius
	minX, maxX := int(math.Floor(c.X-radius)), int(math.Ceil(c.X+radius))
	minY, maxY := int(math.Floor(c.Y-radius)), int(math.Ceil(c.Y+radius))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			dx, dy := float64(x)+0.5-c.X, float64(y)+0.5-c.Y
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, ink)
			}
		}
	}
}
