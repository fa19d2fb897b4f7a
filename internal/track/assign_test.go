package track

import "testing"

func assignmentCost(t *testing.T, cost [][]float64, assign []int) float64 {
	t.Helper()
	var total float64
	for i, j := range assign {
		if j < 0 {
			continue
		}
		total += cost[i][j]
	}
	return total
}

func TestAssignMinCost_Empty(t *testing.T) {
	if got := assignMinCost(nil); got != nil {
		t.Errorf("empty matrix: got %v, want nil", got)
	}
	got := assignMinCost([][]float64{{}, {}})
	if len(got) != 2 || got[0] != -1 || got[1] != -1 {
		t.Errorf("zero-column matrix: got %v, want [-1 -1]", got)
	}
}

func TestAssignMinCost_Single(t *testing.T) {
	got := assignMinCost([][]float64{{7}})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("got %v, want [0]", got)
	}
}

func TestAssignMinCost_Square(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	got := assignMinCost(cost)
	want := []int{1, 0, 2} // 1 + 2 + 2 = 5, the unique optimum
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v (cost %v)", got, want, assignmentCost(t, cost, got))
		}
	}
}

func TestAssignMinCost_GreedyIsNotOptimal(t *testing.T) {
	// The greedy pick takes (0,0)=1 and strands row 1 with 10; the optimum
	// takes the off-diagonal for a total of 2+3=5.
	cost := [][]float64{
		{1, 3},
		{2, 10},
	}
	got := assignMinCost(cost)
	if total := assignmentCost(t, cost, got); total != 5 {
		t.Errorf("assignment %v has cost %v, want 5", got, total)
	}
}

func TestAssignMinCost_RectangularWide(t *testing.T) {
	// More columns than rows: every row matches, extra columns stay free.
	cost := [][]float64{
		{9, 1, 9, 9},
		{9, 9, 2, 9},
	}
	got := assignMinCost(cost)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestAssignMinCost_RectangularTall(t *testing.T) {
	// More rows than columns: exactly one row must go unmatched.
	cost := [][]float64{
		{1},
		{2},
		{3},
	}
	got := assignMinCost(cost)
	matched := 0
	for _, j := range got {
		if j >= 0 {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("got %v, want exactly one matched row", got)
	}
	if got[0] != 0 {
		t.Errorf("got %v, want the cheapest row 0 matched", got)
	}
}

func TestAssignMinCost_ForbiddenEntries(t *testing.T) {
	cost := [][]float64{
		{forbiddenCost, 1},
		{2, forbiddenCost},
	}
	got := assignMinCost(cost)
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("got %v, want [1 0] avoiding forbidden cells", got)
	}
}

func TestAssignMinCost_AllForbiddenRow(t *testing.T) {
	cost := [][]float64{
		{forbiddenCost, forbiddenCost},
		{1, 2},
	}
	got := assignMinCost(cost)
	if got[0] != -1 {
		t.Errorf("row with no admissible column must stay unmatched, got %v", got)
	}
	if got[1] != 0 {
		t.Errorf("got %v, want row 1 matched to column 0", got)
	}
}

func TestAssignMinCost_Deterministic(t *testing.T) {
	// Two optimal solutions of equal total cost; repeated runs must pick the
	// same one.
	cost := [][]float64{
		{1, 1},
		{1, 1},
	}
	first := assignMinCost(cost)
	for k := 0; k < 5; k++ {
		again := assignMinCost(cost)
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("run %d differs: %v vs %v", k, again, first)
			}
		}
	}
}
