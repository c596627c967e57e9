// Package display answers questions about the live desktop: the size and
// scale of the screen, which window has focus and where it is, and what a
// given screen region currently looks like.
//
// Open returns the implementation for the current platform. On Linux it talks
// to the X server through xgbutil (EWMH for the active window). On macOS and
// Windows it uses robotgo. Everywhere else, and whenever no display server
// can be reached, callers fall back to Static, which serves a fixed screen
// description and optionally a screenshot.
//
// All geometry is reported in physical pixels.
package display
