package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	point := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  point,
	}
	d.DrawString(text)
}

// createImageWithText renders text and scales it up by an integer factor so
// Tesseract can read the bitmap font.
func createImageWithText(text string, scale int) *image.RGBA {
	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.Black)

	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func requireTesseract(t *testing.T) *Tesseract {
	t.Helper()
	tess := NewTesseract(Options{})
	if !tess.Info().Available {
		t.Skip("Tesseract not available")
	}
	return tess
}

func skipIfEngineMissing(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "language") || strings.Contains(msg, "library") {
		t.Skipf("Tesseract not usable: %v", err)
	}
}

func TestNewTesseract_Defaults(t *testing.T) {
	tess := NewTesseract(Options{})
	if tess.opts.Language != "eng" {
		t.Errorf("Language = %q, want eng", tess.opts.Language)
	}
	if tess.opts.MinConfidence != DefaultMinConfidence {
		t.Errorf("MinConfidence = %v, want %v", tess.opts.MinConfidence, DefaultMinConfidence)
	}

	custom := NewTesseract(Options{Language: "eng+jpn", MinConfidence: 50})
	if custom.opts.Language != "eng+jpn" || custom.opts.MinConfidence != 50 {
		t.Errorf("custom options not kept: %+v", custom.opts)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseract(Options{}).Extract(ctx, createImageWithText("SAVE", 3))
	if err == nil {
		t.Fatal("Extract should fail on a cancelled context")
	}
}

func TestExtract_RealText(t *testing.T) {
	tess := requireTesseract(t)
	img := createImageWithText("SAVE FILE", 4)

	elements, err := tess.Extract(context.Background(), img)
	skipIfEngineMissing(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	t.Logf("extracted %d elements: %+v", len(elements), elements)

	b := img.Bounds()
	for _, e := range elements {
		if strings.TrimSpace(e.Text) == "" {
			t.Errorf("blank element returned: %+v", e)
		}
		if e.Confidence <= DefaultMinConfidence {
			t.Errorf("low confidence element returned: %+v", e)
		}
		c := e.Center()
		if !image.Pt(c.X, c.Y).In(b) {
			t.Errorf("element centre outside image: %+v", e)
		}
	}
}

func TestExtract_BlankImage(t *testing.T) {
	tess := requireTesseract(t)
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	elements, err := tess.Extract(context.Background(), img)
	skipIfEngineMissing(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("blank image produced %d elements: %+v", len(elements), elements)
	}
}

func TestExtract_Preprocessed(t *testing.T) {
	tess := requireTesseract(t)
	pre := NewTesseract(Options{Preprocess: true})

	img := createImageWithText("OPEN", 4)
	elements, err := pre.Extract(context.Background(), img)
	skipIfEngineMissing(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	t.Logf("preprocessed extraction (%s): %+v", tess.Info().Version, elements)
}
