// Package imaging provides the image operations the locator pipeline needs
// around a screenshot: decoding and caching, cropping a window or a region
// around a point, drawing a verification crosshair, choosing a marker colour
// that stands out from the local background, and shrinking images before
// they are sent to a vision model.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based image coordinates:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are geometry.Rect values; the origin is inclusive and
//     origin+size is exclusive.
//
// Images whose bounds do not start at (0,0) are handled by offsetting regions
// by img.Bounds().Min, so callers always work in "screenshot pixels".
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and returns a new image; inputs are never modified.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions with no overlap with the image
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
