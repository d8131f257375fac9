package uncertain

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a, b := Point(0.75), Point(0.15)

	tests := []struct {
		name string
		got  Value
		want float64
	}{
		{"add", a.Add(b), 0.9},
		{"sub", a.Sub(b), 0.6},
		{"mul", a.Mul(b), 0.1125},
		{"scale", a.Scale(2), 1.5},
		{"add scalar", a.AddScalar(-0.25), 0.5},
		{"neg", b.Neg(), -0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.IsPoint() {
				t.Fatalf("expected point result")
			}
			if math.Abs(tt.got.Mean()-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", tt.got.Mean(), tt.want)
			}
		})
	}
}

func TestBroadcastPointOverSamples(t *testing.T) {
	d := FromSamples([]float64{1, 2, 3, 4})

	sum := d.Add(Point(10))
	want := []float64{11, 12, 13, 14}
	for i, x := range sum.Samples() {
		if x != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, x, want[i])
		}
	}

	diff := Point(10).Sub(d)
	if diff.Samples()[3] != 6 {
		t.Errorf("expected point minus sample, got %v", diff.Samples())
	}
}

func TestElementwiseCombination(t *testing.T) {
	a := FromSamples([]float64{1, 2, 3})
	b := FromSamples([]float64{4, 5, 6})

	prod := a.Mul(b)
	want := []float64{4, 10, 18}
	for i, x := range prod.Samples() {
		if x != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, x, want[i])
		}
	}

	// x - x is exactly zero because samples are paired.
	zero := a.Sub(a)
	if zero.Mean() != 0 || zero.StdDev() != 0 {
		t.Errorf("expected exact zero, got mean=%v std=%v", zero.Mean(), zero.StdDev())
	}
}

func TestSampleCountMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched sample counts")
		}
	}()
	FromSamples([]float64{1, 2}).Add(FromSamples([]float64{1, 2, 3}))
}

func TestValuesAreImmutable(t *testing.T) {
	src := []float64{1, 2, 3}
	v := FromSamples(src)
	src[0] = 99

	if v.Samples()[0] != 1 {
		t.Error("FromSamples did not copy its input")
	}

	out := v.Samples()
	out[1] = 42
	if v.Samples()[1] != 2 {
		t.Error("Samples exposed internal storage")
	}

	_ = v.Add(Point(1))
	if v.Samples()[2] != 3 {
		t.Error("Add mutated its receiver")
	}
}

func TestStatistics(t *testing.T) {
	v := FromSamples([]float64{1, 2, 3, 4, 5})

	if v.Mean() != 3 {
		t.Errorf("mean: got %v, want 3", v.Mean())
	}
	if math.Abs(v.StdDev()-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("stddev: got %v, want %v", v.StdDev(), math.Sqrt(2.5))
	}
	if v.Min() != 1 || v.Max() != 5 {
		t.Errorf("range: got [%v, %v]", v.Min(), v.Max())
	}
	if q := v.Quantile(0.5); q != 3 {
		t.Errorf("median: got %v, want 3", q)
	}
	if q := v.Quantile(1); q != 5 {
		t.Errorf("p100: got %v, want 5", q)
	}
}

func TestPointStatistics(t *testing.T) {
	v := Point(0.42)
	if v.StdDev() != 0 {
		t.Errorf("point stddev should be 0, got %v", v.StdDev())
	}
	if v.Quantile(0.05) != 0.42 || v.Quantile(0.95) != 0.42 {
		t.Error("point quantiles should equal the point")
	}
	if v.Len() != 1 {
		t.Errorf("point length: got %d", v.Len())
	}
}

func TestFromSamplesDegenerate(t *testing.T) {
	if !FromSamples(nil).IsPoint() || FromSamples(nil).Mean() != 0 {
		t.Error("empty samples should give point 0")
	}
	if v := FromSamples([]float64{7}); !v.IsPoint() || v.Mean() != 7 {
		t.Error("single sample should give a point")
	}
}

func TestIsFinite(t *testing.T) {
	if !Point(1).IsFinite() {
		t.Error("1 should be finite")
	}
	if Point(math.NaN()).IsFinite() {
		t.Error("NaN should not be finite")
	}
	if FromSamples([]float64{1, math.Inf(1)}).IsFinite() {
		t.Error("Inf sample should not be finite")
	}
}

func TestSummarize(t *testing.T) {
	v := FromSamples([]float64{1, 2, 3, 4, 5})
	s := v.Summarize(0.5, 1)

	if s.Mean != 3 || s.Min != 1 || s.Max != 5 || s.Samples != 5 {
		t.Errorf("unexpected summary %+v", s)
	}
	if q, ok := s.At(0.5); !ok || q != 3 {
		t.Errorf("median: got %v (%v)", q, ok)
	}
	if _, ok := s.At(0.9); ok {
		t.Error("unrequested level should be absent")
	}

	p := Point(2).Summarize(0.05)
	if q, _ := p.At(0.05); q != 2 || p.Min != 2 || p.Max != 2 {
		t.Errorf("unexpected point summary %+v", p)
	}
}

func TestQuantileNaNLevel(t *testing.T) {
	v := FromSamples([]float64{1, 2, 3})
	if q := v.Quantile(math.NaN()); !math.IsNaN(q) {
		t.Errorf("expected NaN for a NaN level, got %v", q)
	}
}
