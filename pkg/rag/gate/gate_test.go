package gate

import "testing"

func TestAdmits(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		chapter int
		index   int
		want    bool
	}{
		{"earlier chapter", Position{Chapter: 2, Index: 0}, 1, 99, true},
		{"same chapter earlier index", Position{Chapter: 0, Index: 5}, 0, 4, true},
		{"same chapter same index", Position{Chapter: 0, Index: 5}, 0, 5, true},
		{"same chapter later index", Position{Chapter: 0, Index: 5}, 0, 6, false},
		{"later chapter", Position{Chapter: 0, Index: 5}, 1, 0, false},
		{"start of book", Position{Chapter: 0, Index: 0}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Admits(tt.chapter, tt.index); got != tt.want {
				t.Errorf("Position%+v.Admits(%d, %d) = %v, want %v", tt.pos, tt.chapter, tt.index, got, tt.want)
			}
		})
	}
}

func TestAdmitsTwoChapterScenario(t *testing.T) {
	// Chunks at (0,0)..(0,9) and (1,0)..(1,9), reader at (0,5):
	// only chapter 0 positions <= 5 are admissible.
	pos := Position{Chapter: 0, Index: 5}

	for idx := 0; idx <= 9; idx++ {
		if got := pos.Admits(0, idx); got != (idx <= 5) {
			t.Errorf("Admits(0, %d) = %v", idx, got)
		}
		if pos.Admits(1, idx) {
			t.Errorf("Admits(1, %d) = true, chapter 1 must be excluded", idx)
		}
	}
}

func TestLess(t *testing.T) {
	a := Position{Chapter: 0, Index: 9}
	b := Position{Chapter: 1, Index: 0}
	if !a.Less(b) || b.Less(a) {
		t.Errorf("expected %+v < %+v", a, b)
	}
	if a.Less(a) {
		t.Error("position must not be less than itself")
	}
}
