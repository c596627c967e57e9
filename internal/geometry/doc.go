// Package geometry converts pixel coordinates between the coordinate spaces a
// screen locator has to deal with.
//
// # Coordinate Spaces
//
//   - Image space: pixels of a screenshot as it was sent to a vision model or
//     OCR engine. A screenshot may have been resized after capture, so image
//     space is not necessarily the display resolution.
//   - Window space: pixels measured from the top-left corner of an application
//     window, at physical resolution.
//   - Physical space: pixels of the real display buffer.
//   - Logical space: pixels reported by a GUI toolkit under DPI scaling.
//     Physical = Logical * Scale.
//
// All spaces use the image convention: origin at the top-left, X grows to the
// right and Y grows downward.
//
// # Clamping
//
// Every conversion clamps its output to the bounds of the target space. An
// input that lies "a bit off-screen" resolves to the nearest edge pixel rather
// than failing, which matches how clicks and overlays behave downstream.
//
// # Thread Safety
//
// Converter holds the current ScreenInfo as an immutable snapshot. Refresh
// swaps in a new snapshot atomically, so any number of goroutines may convert
// points while a refresh is in progress.
package geometry
