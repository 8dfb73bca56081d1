package shareimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font"
)

func testFace(t *testing.T) font.Face {
	t.Helper()
	f, err := loadFaces()
	if err != nil {
		t.Fatalf("loadFaces: %v", err)
	}
	return f.title
}

func TestWrapTextRespectsWidth(t *testing.T) {
	face := testFace(t)
	title := "Building Scalable React Applications with TypeScript and a Very Long Subtitle"
	maxWidth := 500
	lines := WrapText(face, title, maxWidth)
	if len(lines) < 2 {
		t.Fatalf("expected the title to wrap, got %q", lines)
	}
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > maxWidth && strings.Contains(line, " ") {
			t.Errorf("line %q is %dpx wide, limit %d", line, w, maxWidth)
		}
	}
	if got := strings.Join(lines, " "); got != title {
		t.Errorf("wrapped text lost words: %q", got)
	}
}

func TestWrapTextLongWordGetsOwnLine(t *testing.T) {
	face := testFace(t)
	lines := WrapText(face, "a Supercalifragilisticexpialidocious b", 100)
	if len(lines) != 3 || lines[1] != "Supercalifragilisticexpialidocious" {
		t.Errorf("WrapText = %q", lines)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if lines := WrapText(testFace(t), "   ", 100); len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}

func TestCardMeta(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{Author: "Vishrut Vatsa", ReadTime: "8 min read"}, "By Vishrut Vatsa • 8 min read"},
		{Card{ReadTime: "3 min read"}, "3 min read"},
		{Card{Author: "A"}, "By A"},
		{Card{}, ""},
	}
	for _, tt := range tests {
		if got := tt.card.Meta(); got != tt.want {
			t.Errorf("Meta() = %q, want %q", got, tt.want)
		}
	}
}

func TestEncodeProducesSquarePNG(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, Card{
		Title:    "I can be wrong",
		Author:   "Vishrut Vatsa",
		ReadTime: "8 min read",
		Brand:    "Vishrut's Blog",
		Tagline:  "A Vatsa Production",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Size || b.Dy() != Size {
		t.Fatalf("bounds = %v, want %dx%d", b, Size, Size)
	}
	// Corners sit outside the panel and show the gradient ends.
	if got := color.RGBAModel.Convert(img.At(Size-1, Size-1)).(color.RGBA); got != gradientStops[2] {
		t.Errorf("bottom-right = %v, want %v", got, gradientStops[2])
	}
	// Panel centre, between title and branding, is near white.
	r, g, b, _ := img.At(Size/2, 700).RGBA()
	if r>>8 < 0xf0 || g>>8 < 0xf0 || b>>8 < 0xf0 {
		t.Errorf("panel centre = (%d,%d,%d), want near white", r>>8, g>>8, b>>8)
	}
}

func TestRoundedMaskCorners(t *testing.T) {
	m := &roundedMask{r: image.Rect(0, 0, 100, 100), radius: 20}
	if a := m.At(0, 0).(color.Alpha).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := m.At(50, 50).(color.Alpha).A; a != 0xff {
		t.Errorf("centre alpha = %d, want 255", a)
	}
	if a := m.At(50, 0).(color.Alpha).A; a != 0xff {
		t.Errorf("top edge alpha = %d, want 255", a)
	}
}
