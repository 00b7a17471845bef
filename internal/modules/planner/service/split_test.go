package service

import (
	"math"
	"os"
	"testing"

	"github.com/13magician/kol-gold/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestSplitPlanDistributesRemainderToFirstLegs(t *testing.T) {
	// 0.05 на три тейка: база 0.01, остаток 0.02 уходит первым двум ногам
	legs := SplitPlan(0.05, []float64{2010, 2020, 2030}, 0.01)

	if len(legs) != 3 {
		t.Fatalf("ожидалось 3 ноги, получили %d", len(legs))
	}
	want := []float64{0.02, 0.02, 0.01}
	for i, leg := range legs {
		if leg.Volume != want[i] {
			t.Fatalf("нога %d: %.2f, want %.2f", i, leg.Volume, want[i])
		}
	}
	if legs[0].TP != 2010 || legs[2].TP != 2030 {
		t.Fatal("тейки должны сохранять порядок")
	}
}

func TestSplitPlanCollapseBelowGranularity(t *testing.T) {
	// 0.02 на три тейка не делится — одна нога на первый тейк
	legs := SplitPlan(0.02, []float64{2010, 2020, 2030}, 0.01)

	if len(legs) != 1 {
		t.Fatalf("ожидалась одна нога, получили %d", len(legs))
	}
	if legs[0].Volume != 0.02 || legs[0].TP != 2010 {
		t.Fatalf("схлопывание неверно: %+v", legs[0])
	}
}

func TestSplitPlanSumProperty(t *testing.T) {
	cases := []struct {
		total float64
		n     int
	}{
		{0.05, 3}, {0.10, 3}, {0.30, 4}, {0.07, 2}, {1.00, 5}, {0.01, 1},
	}
	tps := []float64{2010, 2020, 2030, 2040, 2050}

	for _, tc := range cases {
		legs := SplitPlan(tc.total, tps[:tc.n], 0.01)
		var sum float64
		for _, leg := range legs {
			if leg.Volume <= 0 {
				t.Fatalf("total=%.2f n=%d: нога с нулевым объёмом", tc.total, tc.n)
			}
			sum += leg.Volume
		}
		if math.Abs(sum-tc.total) > 0.01+1e-9 {
			t.Fatalf("total=%.2f n=%d: сумма ног %.4f расходится больше чем на шаг", tc.total, tc.n, sum)
		}
	}
}

func TestSplitPlanZeroTotal(t *testing.T) {
	if legs := SplitPlan(0, []float64{2010}, 0.01); legs != nil {
		t.Fatalf("нулевой объём не даёт ног, получили %+v", legs)
	}
}
