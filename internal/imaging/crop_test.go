package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := Crop(img, geometry.Rect{X: 40, Y: 40, Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if w, h := Size(cropped); w != 20 || h != 20 {
		t.Fatalf("cropped size %dx%d, want 20x20", w, h)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{19, 0, color.RGBA{0, 255, 0, 255}},
		{0, 19, color.RGBA{0, 0, 255, 255}},
		{19, 19, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := rgbaAt(cropped, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCrop_ClipsToImage(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := Crop(img, geometry.Rect{X: 90, Y: 90, Width: 50, Height: 50})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if w, h := Size(cropped); w != 10 || h != 10 {
		t.Errorf("cropped size %dx%d, want 10x10", w, h)
	}
}

func TestCrop_Errors(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name   string
		region geometry.Rect
	}{
		{"zero width", geometry.Rect{X: 10, Y: 10, Width: 0, Height: 10}},
		{"negative height", geometry.Rect{X: 10, Y: 10, Width: 10, Height: -5}},
		{"outside", geometry.Rect{X: 200, Y: 200, Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.region); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCrop_NonZeroOrigin(t *testing.T) {
	base := createPatternImage(100, 100)
	sub := base.SubImage(image.Rect(50, 50, 100, 100))

	cropped, err := Crop(sub, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if got := rgbaAt(cropped, 0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want white from the sub-image origin", got)
	}
}

func TestResize(t *testing.T) {
	img := createInMemoryImage(50, 40, color.RGBA{10, 20, 30, 255})

	resized, err := Resize(img, 100, 80)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if w, h := Size(resized); w != 100 || h != 80 {
		t.Errorf("resized to %dx%d, want 100x80", w, h)
	}

	if _, err := Resize(img, 0, 10); err == nil {
		t.Error("Resize should reject a zero width")
	}
}
