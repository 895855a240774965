package sparse

import "testing"

func TestSetAndValue(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(2, 1, 7)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(9, 9); v != M.NullValue() {
		t.Errorf("expected M(9,9) to be null, is %d", v)
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
}

func TestAddSecondValue(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	M.Add(1, 1, 10)
	M.Add(1, 1, 20)
	a, b := M.Values(1, 1)
	if a != 10 || b != 20 {
		t.Errorf("expected pair (10,20), have (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position set, have %d", M.ValueCount())
	}
	M.Add(1, 1, 30)
	if a, b = M.Values(1, 1); a != 10 || b != 30 {
		t.Errorf("expected third value to replace the second, have (%d,%d)", a, b)
	}
	M.Set(1, 1, 40)
	if a, b = M.Values(1, 1); a != 40 || b != -1 {
		t.Errorf("expected Set to clear the conflict, have (%d,%d)", a, b)
	}
}

func TestRowIteration(t *testing.T) {
	M := NewIntMatrix(4, 6, -1)
	M.Set(1, 4, 3)
	M.Set(2, 0, 9)
	M.Set(1, 0, 1)
	M.Set(1, 2, 2)
	M.Set(1, 2, -1) // overwrite with null
	var cols []int
	M.EachInRow(1, func(j int, a, b int32) {
		cols = append(cols, j)
	})
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 4 {
		t.Errorf("expected columns [0 4] in row 1, have %v", cols)
	}
	if n := M.RowLen(2); n != 1 {
		t.Errorf("expected 1 cell in row 2, have %d", n)
	}
	if n := M.RowLen(3); n != 0 {
		t.Errorf("expected row 3 to be empty, has %d cells", n)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Set outside of matrix bounds to panic")
		}
	}()
	NewIntMatrix(2, 2, -1).Set(2, 0, 1)
}
