// Package detection defines the values the resolution pipeline passes around.
//
// A Result is a candidate click point in physical screen pixels together with
// its Confidence, the Method that produced it and whether visual verification
// confirmed or corrected it. Results are plain values; Clone before handing
// one to a component that may retain it.
//
// # Confidence
//
// Confidence is one of three labels ordered low < medium < high. Anything
// below high is sent through verification. Labels reported by a vision model
// are normalised with ParseConfidence; an unknown label is treated as missing.
//
// # Failures
//
// A strategy that cannot produce a coordinate returns a *Failure naming its
// Method and a Reason. Failures are the normal way the fallback chain moves on
// to the next strategy. When every strategy fails the resolver returns
// ErrNoCoordinate wrapping all of them; use errors.As or ReasonOf to inspect
// the individual reasons.
package detection
