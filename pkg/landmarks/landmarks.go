// Package landmarks defines the normalized facial landmark types shared by
// the tension pipeline and its transports.
package landmarks

import "math"

// Point is a single landmark position, normalized to [0,1] relative to the
// source frame. Z is depth when the upstream model provides it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Dist returns the planar Euclidean distance between two landmarks.
// Depth is intentionally ignored: the signal ratios are defined on the
// image plane only.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
