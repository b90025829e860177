package landmarks

import "fmt"

// Role names an anatomical landmark used by the signal extractor.
type Role string

const (
	LeftFaceEdge     Role = "left_face_edge"
	RightFaceEdge    Role = "right_face_edge"
	LeftEyeTop       Role = "left_eye_top"
	LeftEyeBottom    Role = "left_eye_bottom"
	RightEyeTop      Role = "right_eye_top"
	RightEyeBottom   Role = "right_eye_bottom"
	LeftInnerBrow    Role = "left_inner_brow"
	RightInnerBrow   Role = "right_inner_brow"
	LeftMouthCorner  Role = "left_mouth_corner"
	RightMouthCorner Role = "right_mouth_corner"
	UpperLipCenter   Role = "upper_lip_center"
	LeftCheek        Role = "left_cheek"
	RightCheek       Role = "right_cheek"
	NoseTip          Role = "nose_tip"
	NoseBridge       Role = "nose_bridge"
)

// Roles lists every role a table must map. Order is not significant.
var Roles = []Role{
	LeftFaceEdge, RightFaceEdge,
	LeftEyeTop, LeftEyeBottom, RightEyeTop, RightEyeBottom,
	LeftInnerBrow, RightInnerBrow,
	LeftMouthCorner, RightMouthCorner, UpperLipCenter,
	LeftCheek, RightCheek,
	NoseTip, NoseBridge,
}

// Table maps landmark roles to fixed integer indices into the landmark
// sequence delivered by the upstream model. A table is static for the
// lifetime of a pipeline.
type Table map[Role]int

// NewTable validates the mapping at construction: every role must be
// present with a non-negative index. A bad table is a configuration error,
// never a runtime one.
func NewTable(indices map[Role]int) (Table, error) {
	t := make(Table, len(Roles))
	for _, role := range Roles {
		idx, ok := indices[role]
		if !ok {
			return nil, fmt.Errorf("landmark table missing role %q", role)
		}
		if idx < 0 {
			return nil, fmt.Errorf("landmark table role %q has negative index %d", role, idx)
		}
		t[role] = idx
	}
	return t, nil
}

// MaxIndex returns the largest index in the table. A landmark sequence
// shorter than MaxIndex+1 cannot satisfy the table.
func (t Table) MaxIndex() int {
	max := 0
	for _, idx := range t {
		if idx > max {
			max = idx
		}
	}
	return max
}

// Covers reports whether a landmark sequence of length n contains every
// index the table references.
func (t Table) Covers(n int) bool {
	return n > t.MaxIndex()
}

// FaceMesh returns the default table for the 468-point MediaPipe FaceMesh
// topology. Indices follow the canonical mesh numbering.
func FaceMesh() Table {
	t, err := NewTable(map[Role]int{
		LeftFaceEdge:     234,
		RightFaceEdge:    454,
		LeftEyeTop:       159,
		LeftEyeBottom:    145,
		RightEyeTop:      386,
		RightEyeBottom:   374,
		LeftInnerBrow:    55,
		RightInnerBrow:   285,
		LeftMouthCorner:  61,
		RightMouthCorner: 291,
		UpperLipCenter:   13,
		LeftCheek:        205,
		RightCheek:       425,
		NoseTip:          1,
		NoseBridge:       6,
	})
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return t
}
