package config

import "testing"

func TestFixedLotsFuzzyMatch(t *testing.T) {
	s := &MoneySnapshot{
		FixedDefault: 0.05,
		FixedByKOL:   map[string]float64{"小冰": 0.10},
	}

	if got := s.FixedLots("何小冰(黄金分析)"); got != 0.10 {
		t.Fatalf("FixedLots = %v, want 0.10", got)
	}
	if got := s.FixedLots("孟梵"); got != 0.05 {
		t.Fatalf("неизвестный KOL получает дефолт, got %v", got)
	}
}

func TestRiskRateSymbolKeyword(t *testing.T) {
	s := &MoneySnapshot{
		DefaultRiskRate: 0.02,
		SymbolRiskRates: map[string]float64{"xau": 0.03},
	}

	// ключевое слово матчится без учёта регистра
	if got := s.RiskRate("XAUUSDm"); got != 0.03 {
		t.Fatalf("RiskRate(XAUUSDm) = %v, want 0.03", got)
	}
	if got := s.RiskRate("EURUSD"); got != 0.02 {
		t.Fatalf("RiskRate(EURUSD) = %v, want 0.02", got)
	}
}

func TestMoneyFromSnapshotIsStable(t *testing.T) {
	snap := &MoneySnapshot{Mode: MoneyModeRisk, MinLots: 0.01, MaxLots: 10}
	m := NewMoneyFromSnapshot(snap)

	if m.Snapshot() != snap {
		t.Fatal("Snapshot должен отдавать тот же указатель")
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload без файла должен быть no-op: %v", err)
	}
	if m.Snapshot() != snap {
		t.Fatal("Reload без файла не должен подменять снимок")
	}
}
