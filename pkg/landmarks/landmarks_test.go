package landmarks

import (
	"math"
	"testing"
)

func TestDistSymmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Point
	}{
		{"origin and unit", Point{0, 0, 0}, Point{1, 1, 0}},
		{"normalized coords", Point{0.25, 0.5, 0}, Point{0.75, 0.5, 0}},
		{"same point", Point{0.3, 0.3, 0}, Point{0.3, 0.3, 0}},
		{"depth ignored", Point{0.1, 0.2, 0.9}, Point{0.4, 0.6, -0.3}},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			ab := Dist(tc.a, tc.b)
			ba := Dist(tc.b, tc.a)
			if ab != ba {
				t.Errorf("Dist not symmetric: %v vs %v", ab, ba)
			}
		})
	}
}

func TestDistIgnoresDepth(t *testing.T) {
	flat := Dist(Point{0.1, 0.2, 0}, Point{0.4, 0.6, 0})
	deep := Dist(Point{0.1, 0.2, 5}, Point{0.4, 0.6, -5})
	if flat != deep {
		t.Errorf("expected planar distance, got %v vs %v", flat, deep)
	}
	if math.Abs(flat-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %v", flat)
	}
}

func TestNewTable_MissingRole(t *testing.T) {
	indices := make(map[Role]int)
	for _, role := range Roles {
		indices[role] = 1
	}
	delete(indices, NoseBridge)

	if _, err := NewTable(indices); err == nil {
		t.Error("expected error for missing role")
	}
}

func TestNewTable_NegativeIndex(t *testing.T) {
	indices := make(map[Role]int)
	for _, role := range Roles {
		indices[role] = 1
	}
	indices[LeftEyeTop] = -1

	if _, err := NewTable(indices); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestTableCovers(t *testing.T) {
	indices := make(map[Role]int)
	for i, role := range Roles {
		indices[role] = i
	}
	table, err := NewTable(indices)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if got := table.MaxIndex(); got != len(Roles)-1 {
		t.Errorf("MaxIndex = %d, want %d", got, len(Roles)-1)
	}
	if table.Covers(len(Roles) - 1) {
		t.Error("sequence one short should not cover the table")
	}
	if !table.Covers(len(Roles)) {
		t.Error("exact-length sequence should cover the table")
	}
}

func TestFaceMesh(t *testing.T) {
	table := FaceMesh()

	for _, role := range Roles {
		if _, ok := table[role]; !ok {
			t.Errorf("FaceMesh missing role %q", role)
		}
	}
	// FaceMesh topology has 468 points
	if table.MaxIndex() >= 468 {
		t.Errorf("FaceMesh index %d out of topology range", table.MaxIndex())
	}
	if !table.Covers(468) {
		t.Error("468-point sequence should cover FaceMesh table")
	}
}
