package locate

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	require "github.com/stretchr/testify/require"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// Query kinds, told apart by the schema each strategy sends.
const (
	kindDisambiguation = "disambiguation"
	kindLocate         = "locate"
	kindVerification   = "verification"
)

func queryKind(req vision.Request) string {
	switch {
	case bytes.Equal(req.Schema, disambiguationSchema):
		return kindDisambiguation
	case bytes.Equal(req.Schema, verificationSchema):
		return kindVerification
	default:
		return kindLocate
	}
}

// fakeVision replies with canned JSON per query kind. Replies are consumed in
// order; the last one is repeated.
type fakeVision struct {
	mu      sync.Mutex
	replies map[string][]string
	errs    map[string]error
	calls   []vision.Request
}

func newFakeVision() *fakeVision {
	return &fakeVision{replies: map[string][]string{}, errs: map[string]error{}}
}

func (f *fakeVision) reply(kind string, content ...string) *fakeVision {
	f.replies[kind] = append(f.replies[kind], content...)
	return f
}

func (f *fakeVision) fail(kind string, err error) *fakeVision {
	f.errs[kind] = err
	return f
}

func (f *fakeVision) Query(ctx context.Context, req vision.Request) (*vision.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind := queryKind(req)
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	queue := f.replies[kind]
	if len(queue) == 0 {
		return nil, errors.New("no canned reply for " + kind)
	}
	content := queue[0]
	if len(queue) > 1 {
		f.replies[kind] = queue[1:]
	}
	return vision.ParseResponse(content, req.Schema)
}

func (f *fakeVision) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if queryKind(c) == kind {
			n++
		}
	}
	return n
}

func (f *fakeVision) last(kind string) vision.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if queryKind(f.calls[i]) == kind {
			return f.calls[i]
		}
	}
	return vision.Request{}
}

type fakeExtractor struct {
	elements []ocr.TextElement
	err      error
	calls    int
}

func (f *fakeExtractor) Extract(ctx context.Context, img image.Image) ([]ocr.TextElement, error) {
	f.calls++
	return f.elements, f.err
}

type fakeWindows struct {
	win   *geometry.WindowInfo
	err   error
	calls int
}

func (f *fakeWindows) FocusedWindow(ctx context.Context) (*geometry.WindowInfo, error) {
	f.calls++
	return f.win, f.err
}

type fakeCapturer struct {
	img     image.Image
	err     error
	regions []geometry.Rect
}

func (f *fakeCapturer) CaptureRegion(ctx context.Context, region geometry.Rect) (image.Image, error) {
	f.regions = append(f.regions, region)
	return f.img, f.err
}

type failingScreen struct{}

func (failingScreen) ScreenInfo(context.Context) (geometry.ScreenInfo, error) {
	return geometry.ScreenInfo{}, errors.New("no display")
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	return img
}

// testScreen is an 800x600 display without scaling.
func testScreen(t *testing.T) geometry.ScreenInfo {
	t.Helper()
	info, err := geometry.NewScreenInfo(800, 600, 800, 600, 96, 96)
	require.NoError(t, err)
	return info
}

func testConverter(t *testing.T) *geometry.Converter {
	return geometry.NewStaticConverter(testScreen(t))
}
