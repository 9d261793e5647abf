package puzzle

import "testing"

func TestCellConstraintsCorners(t *testing.T) {
	cc := NewCellConstraints(3, 3)

	topLeft := cc.At(0, 0)
	if !topLeft.IsBorder(North) || !topLeft.IsBorder(West) {
		t.Fatalf("top-left should face border on North and West")
	}
	if topLeft.IsBorder(East) || topLeft.IsBorder(South) {
		t.Fatalf("top-left should not face border on East or South")
	}

	center := cc.At(1, 1)
	for side := Side(0); side < NumSides; side++ {
		if center.IsBorder(side) {
			t.Fatalf("center cell should have no border sides, got side %d", side)
		}
	}
	if len(center.Neighbors()) != 4 {
		t.Fatalf("center cell should have 4 neighbors, got %d", len(center.Neighbors()))
	}
}

func TestCellConstraintsNeighborSymmetry(t *testing.T) {
	cc := NewCellConstraints(4, 4)
	r, c := 1, 1
	cell := cc.At(r, c)
	nr, nc, ok := cell.Neighbor(East)
	if !ok {
		t.Fatal("expected East neighbor")
	}
	neighborCell := cc.At(nr, nc)
	br, bc, ok := neighborCell.Neighbor(West)
	if !ok || br != r || bc != c {
		t.Fatalf("neighbor relation not symmetric: got (%d,%d)", br, bc)
	}
}
