package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

func TestDrawCrosshair(t *testing.T) {
	gray := color.RGBA{128, 128, 128, 255}
	blue := color.RGBA{0, 0, 255, 255}
	img := createInMemoryImage(50, 50, gray)

	out := DrawCrosshair(img, geometry.Point{X: 25, Y: 25}, Crosshair{Arm: 10, Thickness: 2, Color: blue})

	marked := []struct{ x, y int }{
		{25, 25}, {15, 25}, {35, 25}, {25, 15}, {25, 35}, {20, 24}, {24, 30},
	}
	for _, p := range marked {
		if got := rgbaAt(out, p.x, p.y); got != blue {
			t.Errorf("pixel (%d,%d) = %v, want marker colour", p.x, p.y, got)
		}
	}

	untouched := []struct{ x, y int }{
		{36, 25}, {14, 25}, {25, 36}, {30, 30}, {0, 0},
	}
	for _, p := range untouched {
		if got := rgbaAt(out, p.x, p.y); got != gray {
			t.Errorf("pixel (%d,%d) = %v, want background", p.x, p.y, got)
		}
	}

	// The source image is not modified.
	if got := rgbaAt(img, 25, 25); got != gray {
		t.Errorf("source pixel changed to %v", got)
	}
}

func TestDrawCrosshair_AtEdge(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{128, 128, 128, 255})
	green := color.RGBA{0, 255, 0, 255}

	out := DrawCrosshair(img, geometry.Point{X: 0, Y: 19}, Crosshair{Color: green})

	if got := rgbaAt(out, 0, 19); got != green {
		t.Errorf("corner pixel = %v, want marker colour", got)
	}
	if w, h := Size(out); w != 20 || h != 20 {
		t.Errorf("output size %dx%d, want 20x20", w, h)
	}
}

func TestDrawCrosshair_ContrastDefault(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	img := createInMemoryImage(40, 40, red)

	out := DrawCrosshair(img, geometry.Point{X: 20, Y: 20}, DefaultCrosshair)

	if got := rgbaAt(out, 20, 20); got == red {
		t.Error("crosshair on a red background must not be drawn in red")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"#00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"0000FF", color.RGBA{0, 0, 255, 255}, false},
		{"#FF000080", color.RGBA{255, 0, 0, 128}, false},
		{" #ffcc00 ", color.RGBA{255, 204, 0, 255}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ParseHexColor(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c != tt.want {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}
