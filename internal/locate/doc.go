// Package locate resolves a natural-language question about a screenshot
// ("where is the save button?") into a physical screen coordinate.
//
// A Resolver classifies the question, runs a chain of strategies until one
// produces a coordinate, re-checks low and medium confidence answers with a
// zoomed crosshair query, and records the final result:
//
//	text questions:  TextMatch -> WindowRelative -> FullScreen
//	other questions: WindowRelative -> FullScreen
//
// Each strategy either returns a *detection.Result in physical pixels or a
// *detection.Failure explaining why it could not. Only when every strategy
// fails does the caller see an error, detection.ErrNoCoordinate.
package locate
