package filter

import "testing"

func TestBorderIndex(t *testing.T) {
	tests := []struct {
		name   string
		border Border
		i      int
		want   int
		ok     bool
	}{
		{"reflect -1", Reflect, -1, 0, true},
		{"reflect -2", Reflect, -2, 1, true},
		{"reflect n", Reflect, 5, 4, true},
		{"reflect n+1", Reflect, 6, 3, true},
		{"replicate -3", Replicate, -3, 0, true},
		{"replicate n+2", Replicate, 7, 4, true},
		{"zero -1", Zero, -1, 0, false},
		{"zero n", Zero, 5, 0, false},
		{"wrap -1", Wrap, -1, 4, true},
		{"wrap n", Wrap, 5, 0, true},
		{"inside", Zero, 3, 3, true},
	}
	const n = 5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.border.index(tt.i, n)
			if got != tt.want || ok != tt.ok {
				t.Errorf("%s.index(%d, %d) = (%d, %v), want (%d, %v)",
					tt.border, tt.i, n, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBorderIndex_NarrowAxis(t *testing.T) {
	// Reflect must fold repeatedly when the kernel overhangs a 2-wide axis.
	if got, _ := Reflect.index(-3, 2); got != 1 {
		t.Errorf("Reflect.index(-3, 2) = %d, want 1", got)
	}
	if got, _ := Reflect.index(4, 2); got != 0 {
		t.Errorf("Reflect.index(4, 2) = %d, want 0", got)
	}
}
