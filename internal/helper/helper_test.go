package helper

import "testing"

func TestRoundToStepNearest(t *testing.T) {
	cases := []struct {
		vol, step, want float64
	}{
		{0.017, 0.01, 0.02}, // к ближайшему, не вниз
		{0.014, 0.01, 0.01},
		{0.3, 0.01, 0.3},
		{0.05, 0.05, 0.05},
		{0.07, 0.05, 0.05},
		{0.08, 0.05, 0.10},
	}
	for _, tc := range cases {
		if got := RoundToStep(tc.vol, tc.step); got != tc.want {
			t.Errorf("RoundToStep(%v, %v) = %v, want %v", tc.vol, tc.step, got, tc.want)
		}
	}
}

func TestFloorToStep(t *testing.T) {
	if got := FloorToStep(0.019, 0.01); got != 0.01 {
		t.Errorf("FloorToStep(0.019, 0.01) = %v, want 0.01", got)
	}
	if got := FloorToStep(0.1, 0.01); got != 0.1 {
		t.Errorf("FloorToStep(0.1, 0.01) = %v, want 0.1", got)
	}
}

func TestDirectionPredicates(t *testing.T) {
	if !IsBuy("BUY_LIMIT") || !IsSell("SELL_STOP") {
		t.Fatal("префиксы сторон не распознаны")
	}
	if !IsMarket("BUY") || IsMarket("BUY_LIMIT") || IsMarket("SELL_STOP") {
		t.Fatal("IsMarket неверен")
	}
	if MarketVariant("SELL_LIMIT") != "SELL" || LimitVariant("BUY_STOP") != "BUY_LIMIT" {
		t.Fatal("варианты направлений неверны")
	}
}
