// Package tension derives a facial tension signal from landmark geometry,
// calibrates a personal neutral baseline, and decides when sustained tension
// warrants an alert.
package tension

import (
	"math"

	"github.com/stressless/facewatch/pkg/landmarks"
)

// Signal is one frame's worth of scale-invariant facial geometry.
// All ratios are normalized by face width so the signal is independent
// of how close the face is to the camera.
type Signal struct {
	EyeOpenAvg      float64 `json:"eye_open_avg"`      // Mean eyelid gap; drops when tense
	BrowInnerDist   float64 `json:"brow_inner_dist"`   // Inner brow spacing; drops when furrowed
	MouthWidth      float64 `json:"mouth_width"`       // Corner span; rises when smiling
	MouthCornerLift float64 `json:"mouth_corner_lift"` // Corner height vs upper lip; rises when smiling
	CheekRaise      float64 `json:"cheek_raise"`       // Corner-to-cheek distance; drops when smiling
	HeadRotation    float64 `json:"head_rotation"`     // Signed turn estimate in (-1,1), 0 = forward
}

// Extract computes the signal vector for one frame.
// Returns false when no usable signal exists: empty landmark set, a
// sequence too short for the table, or zero face width. A degenerate
// frame is absence of data, never a zero-division value.
func Extract(points []landmarks.Point, table landmarks.Table) (Signal, bool) {
	if len(points) == 0 || !table.Covers(len(points)) {
		return Signal{}, false
	}

	leftEdge := points[table[landmarks.LeftFaceEdge]]
	rightEdge := points[table[landmarks.RightFaceEdge]]

	faceWidth := landmarks.Dist(leftEdge, rightEdge)
	if faceWidth <= 0 {
		return Signal{}, false
	}

	leftEyeGap := landmarks.Dist(points[table[landmarks.LeftEyeTop]], points[table[landmarks.LeftEyeBottom]])
	rightEyeGap := landmarks.Dist(points[table[landmarks.RightEyeTop]], points[table[landmarks.RightEyeBottom]])

	browDist := landmarks.Dist(points[table[landmarks.LeftInnerBrow]], points[table[landmarks.RightInnerBrow]])

	leftCorner := points[table[landmarks.LeftMouthCorner]]
	rightCorner := points[table[landmarks.RightMouthCorner]]
	upperLip := points[table[landmarks.UpperLipCenter]]

	mouthWidth := landmarks.Dist(leftCorner, rightCorner)

	// Positive lift = corners above the upper lip center (image Y grows
	// downward). Negative values are valid: corners can sit below the lip.
	cornerLift := ((upperLip.Y - leftCorner.Y) + (upperLip.Y - rightCorner.Y)) / 2

	cheekRaise := (landmarks.Dist(leftCorner, points[table[landmarks.LeftCheek]]) +
		landmarks.Dist(rightCorner, points[table[landmarks.RightCheek]])) / 2

	return Signal{
		EyeOpenAvg:      (leftEyeGap/faceWidth + rightEyeGap/faceWidth) / 2,
		BrowInnerDist:   browDist / faceWidth,
		MouthWidth:      mouthWidth / faceWidth,
		MouthCornerLift: cornerLift / faceWidth,
		CheekRaise:      cheekRaise / faceWidth,
		HeadRotation:    headRotation(points[table[landmarks.NoseBridge]], leftEdge, rightEdge),
	}, true
}

// headRotation maps the asymmetry of the nose bridge between the face edges
// to a signed value in (-1,1). A perfectly centered bridge yields 0.
func headRotation(bridge, leftEdge, rightEdge landmarks.Point) float64 {
	noseToLeft := math.Abs(bridge.X - leftEdge.X)
	noseToRight := math.Abs(rightEdge.X - bridge.X)

	asymmetry := 1.0
	if noseToRight > 0 {
		asymmetry = noseToLeft / noseToRight
	}
	return (asymmetry - 1) / (asymmetry + 1)
}
