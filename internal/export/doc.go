// Package export writes simulation output: the plain trajectory file, the
// per-entry summary CSV, the final-state report and an SVG chart. Files are
// written through WriteFileAtomic so a failed export leaves nothing behind.
package export
