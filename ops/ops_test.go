package ops

import "testing"

func TestMinMax(t *testing.T) {

	minVal := float64(0)
	maxVal := float64(7000)

	input := []float64{minVal, maxVal, 1, 2, 3, 4, 5, 6, 0}

	result := GetMaxMin(input)

	if result.Max != maxVal {
		t.Errorf("Expected %.2f but got %.2f", maxVal, result.Max)
	}

	if result.Min != minVal {
		t.Errorf("Expected %.2f but got %.2f", minVal, result.Min)
	}
}

func TestMorph(t *testing.T) {

	b := Bounds[float64]{Min: 1, Max: 2}
	b.Morph(Bounds[float64]{Min: -4, Max: 1.5})

	if b.Min != -4 {
		t.Errorf("Expected %.2f but got %.2f", -4.0, b.Min)
	}
	if b.Max != 2 {
		t.Errorf("Expected %.2f but got %.2f", 2.0, b.Max)
	}
}

func TestSumUnrolledAndTail(t *testing.T) {

	input := make([]uint64, 19)
	var want uint64
	for i := range input {
		input[i] = uint64(i)
		want += uint64(i)
	}

	if got := Sum(input); got != want {
		t.Errorf("Expected %d but got %d", want, got)
	}
}

func TestFold(t *testing.T) {

	got := Fold(func(a, b int64) int64 { return a + b }, 10, []int64{1, 2, 3})

	if got != 16 {
		t.Errorf("Expected %d but got %d", 16, got)
	}
}
