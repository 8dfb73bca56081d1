// Package shareimage renders the square PNG card offered when a reader
// shares an article.
package shareimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card layout, in pixels.
const (
	Size          = 1080
	panelMargin   = 80
	panelRadius   = 20
	patternStep   = 60
	patternSquare = 30
	titleStartY   = 250
	titleLineH    = 60
	titlePadding  = 120
	underlineW    = 240
	underlineH    = 6
)

var (
	gradientStops = []color.RGBA{
		{0x1e, 0x3a, 0x8a, 0xff}, // deep blue
		{0x3b, 0x82, 0xf6, 0xff},
		{0x1d, 0x4e, 0xd8, 0xff},
	}
	patternColor = color.NRGBA{255, 255, 255, 13}
	panelColor   = color.NRGBA{255, 255, 255, 242}
	titleColor   = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	accentColor  = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	metaColor    = color.RGBA{0x64, 0x74, 0x8b, 0xff}
	brandColor   = color.RGBA{0x1e, 0x3a, 0x8a, 0xff}
	taglineColor = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

// Card is the text placed on a share image.
type Card struct {
	Title    string
	Author   string
	ReadTime string
	Brand    string // e.g. "Vishrut's Blog"
	Tagline  string // e.g. "A Vatsa Production"
}

// Meta is the "By <author> • <read time>" line; parts that are empty are dropped.
func (c Card) Meta() string {
	var parts []string
	if c.Author != "" {
		parts = append(parts, "By "+c.Author)
	}
	if c.ReadTime != "" {
		parts = append(parts, c.ReadTime)
	}
	return strings.Join(parts, " • ")
}

type faces struct {
	title, meta, brand, tagline font.Face
}

var (
	facesOnce sync.Once
	loaded    faces
	facesErr  error
)

func loadFaces() (faces, error) {
	facesOnce.Do(func() {
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		newFace := func(f *opentype.Font, size float64) font.Face {
			if facesErr != nil {
				return nil
			}
			face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				facesErr = fmt.Errorf("font face %.0fpt: %w", size, err)
			}
			return face
		}
		loaded = faces{
			title:   newFace(bold, 48),
			meta:    newFace(regular, 34),
			brand:   newFace(bold, 36),
			tagline: newFace(regular, 24),
		}
	})
	return loaded, facesErr
}

// WrapText breaks text into lines no wider than maxWidth when drawn with face.
// A single word wider than maxWidth gets a line of its own.
func WrapText(face font.Face, text string, maxWidth int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// Render draws the card.
func Render(c Card) (*image.RGBA, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	paintGradient(img)

	pattern := image.NewUniform(patternColor)
	for x := 0; x < Size; x += patternStep {
		for y := 0; y < Size; y += patternStep {
			draw.Draw(img, image.Rect(x, y, x+patternSquare, y+patternSquare), pattern, image.Point{}, draw.Over)
		}
	}

	panel := image.Rect(panelMargin, panelMargin, Size-panelMargin, Size-panelMargin)
	draw.DrawMask(img, panel, image.NewUniform(panelColor), image.Point{},
		&roundedMask{r: panel, radius: panelRadius}, panel.Min, draw.Over)

	lines := WrapText(f.title, c.Title, panel.Dx()-titlePadding)
	for i, line := range lines {
		drawCentered(img, f.title, titleColor, line, titleStartY+i*titleLineH)
	}

	underlineY := titleStartY + len(lines)*titleLineH + 24
	draw.Draw(img, image.Rect(Size/2-underlineW/2, underlineY, Size/2+underlineW/2, underlineY+underlineH),
		image.NewUniform(accentColor), image.Point{}, draw.Src)

	if meta := c.Meta(); meta != "" {
		drawCentered(img, f.meta, metaColor, meta, underlineY+64)
	}

	bottomY := Size - 200
	if c.Brand != "" {
		drawCentered(img, f.brand, brandColor, c.Brand, bottomY)
	}
	if c.Tagline != "" {
		drawCentered(img, f.tagline, taglineColor, c.Tagline, bottomY+50)
	}
	return img, nil
}

// Encode renders the card and writes it to w as PNG.
func Encode(w io.Writer, c Card) error {
	img, err := Render(c)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// paintGradient fills img with a three-stop gradient running from the top-left
// to the bottom-right corner.
func paintGradient(img *image.RGBA) {
	b := img.Bounds()
	span := float64(b.Dx() + b.Dy() - 2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(x+y) / span
			img.SetRGBA(x, y, gradientAt(t))
		}
	}
}

func gradientAt(t float64) color.RGBA {
	if t <= 0 {
		return gradientStops[0]
	}
	if t >= 1 {
		return gradientStops[len(gradientStops)-1]
	}
	seg := t * float64(len(gradientStops)-1)
	i := int(seg)
	frac := seg - float64(i)
	a, b := gradientStops[i], gradientStops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

func drawCentered(dst draw.Image, face font.Face, c color.Color, text string, baseline int) {
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P((dst.Bounds().Dx()-width)/2, baseline),
	}
	d.DrawString(text)
}

// roundedMask is an alpha mask that is opaque inside a rounded rectangle.
type roundedMask struct {
	r      image.Rectangle
	radius int
}

func (m *roundedMask) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedMask) Bounds() image.Rectangle { return m.r }

func (m *roundedMask) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.r) {
		return color.Alpha{}
	}
	rad := m.radius
	cx, cy := x, y
	switch {
	case x < m.r.Min.X+rad:
		cx = m.r.Min.X + rad
	case x >= m.r.Max.X-rad:
		cx = m.r.Max.X - rad - 1
	}
	switch {
	case y < m.r.Min.Y+rad:
		cy = m.r.Min.Y + rad
	case y >= m.r.Max.Y-rad:
		cy = m.r.Max.Y - rad - 1
	}
	dx, dy := x-cx, y-cy
	if dx*dx+dy*dy > rad*rad {
		return color.Alpha{}
	}
	return color.Alpha{A: 0xff}
}
