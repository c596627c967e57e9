// Package ocr turns a screenshot into positioned text elements using the
// Tesseract OCR engine (via gosseract/v2).
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Japanese user interfaces need "jpn" as well; languages are combined with
// "+", for example "eng+jpn".
//
// # Output
//
// Extract returns word-level TextElement values in the order Tesseract
// reports them (top-to-bottom, left-to-right within a block). Boxes are in
// the pixel space of the image that was passed in and confidence uses
// Tesseract's 0-100 scale. Words at or below the minimum confidence and
// blank words are dropped. An image with no readable text yields an empty
// slice and no error.
//
// # Preprocessing
//
// Screenshots with light text on dark backgrounds or low contrast themes read
// poorly. When enabled, Preprocess converts to grayscale and boosts contrast
// (using bild) before recognition. Box coordinates are unaffected since the
// image size does not change.
package ocr
