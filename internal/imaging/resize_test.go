package imaging

import (
	"image/color"
	"testing"
)

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxWidth      int
		wantW, wantH  int
	}{
		{"downscale", 200, 100, 100, 100, 50},
		{"already fits", 80, 60, 100, 80, 60},
		{"exact", 100, 40, 100, 100, 40},
		{"disabled", 300, 300, 0, 300, 300},
		{"very wide", 4000, 2, 100, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(tt.width, tt.height, color.RGBA{100, 150, 200, 255})
			got := FitWidth(img, tt.maxWidth)
			if w, h := Size(got); w != tt.wantW || h != tt.wantH {
				t.Errorf("FitWidth = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWidth_KeepsColour(t *testing.T) {
	c := color.RGBA{100, 150, 200, 255}
	img := createInMemoryImage(400, 200, c)

	got := rgbaAt(FitWidth(img, 100), 50, 25)

	if diff(got.R, c.R) > 2 || diff(got.G, c.G) > 2 || diff(got.B, c.B) > 2 {
		t.Errorf("resampled pixel %v, want close to %v", got, c)
	}
}

func TestFitWidth_ReturnsSameImageWhenSmall(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	if FitWidth(img, 100) != img {
		t.Error("FitWidth should return the input unchanged when it fits")
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
