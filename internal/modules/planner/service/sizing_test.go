package service

import (
	"testing"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/internal/modules/config"
)

func riskSnapshot() *config.MoneySnapshot {
	return &config.MoneySnapshot{
		Mode:            config.MoneyModeRisk,
		FixedDefault:    0.05,
		FixedByKOL:      map[string]float64{"小冰": 0.10},
		DefaultRiskRate: 0.03,
		SymbolRiskRates: map[string]float64{"XAU": 0.03},
		MinLots:         0.01,
		MaxLots:         10.0,
	}
}

var goldSpec = models.ContractSpec{ContractSize: 100, MinVolume: 0.01, VolumeStep: 0.01}

func TestCalcLotsRiskFormula(t *testing.T) {
	// 10000 * 0.03 / (10 * 100) = 0.3
	got := CalcLots(riskSnapshot(), "何小冰", "XAUUSD", 2000, 1990, 10000, goldSpec)
	if got != 0.3 {
		t.Fatalf("CalcLots = %.4f, want 0.3", got)
	}
}

func TestCalcLotsRoundsToNearestStep(t *testing.T) {
	// 570 * 0.03 / (10 * 100) = 0.0171 -> к ближайшему шагу 0.02, не вниз
	got := CalcLots(riskSnapshot(), "何小冰", "XAUUSD", 2000, 1990, 570, goldSpec)
	if got != 0.02 {
		t.Fatalf("CalcLots = %.4f, want 0.02 (округление к ближайшему)", got)
	}
}

func TestCalcLotsClampedToMax(t *testing.T) {
	snap := riskSnapshot()
	snap.MaxLots = 0.5
	got := CalcLots(snap, "何小冰", "XAUUSD", 2000, 1999, 100000, goldSpec)
	if got != 0.5 {
		t.Fatalf("CalcLots = %.4f, want clamp 0.5", got)
	}
}

func TestCalcLotsFailSafes(t *testing.T) {
	snap := riskSnapshot()

	if got := CalcLots(snap, "何小冰", "XAUUSD", 2000, 1990, 0, goldSpec); got != 0.01 {
		t.Fatalf("без баланса ожидался страховочный 0.01, got %.4f", got)
	}
	if got := CalcLots(snap, "何小冰", "XAUUSD", 2000, 2000, 10000, goldSpec); got != 0.01 {
		t.Fatalf("с нулевой дистанцией стопа ожидался 0.01, got %.4f", got)
	}
	// нет спецификации контракта — подставляется дефолтный размер 100
	if got := CalcLots(snap, "何小冰", "XAUUSD", 2000, 1990, 10000, models.ContractSpec{}); got != 0.3 {
		t.Fatalf("с фолбэком контракта ожидалось 0.3, got %.4f", got)
	}
}

func TestCalcLotsFixedModeFuzzyMatch(t *testing.T) {
	snap := riskSnapshot()
	snap.Mode = config.MoneyModeFixed

	if got := CalcLots(snap, "何小冰(黄金)", "XAUUSD", 2000, 1990, 10000, goldSpec); got != 0.10 {
		t.Fatalf("нечёткое совпадение KOL должно дать 0.10, got %.4f", got)
	}
	if got := CalcLots(snap, "незнакомец", "XAUUSD", 2000, 1990, 10000, goldSpec); got != 0.05 {
		t.Fatalf("неизвестный KOL получает дефолт 0.05, got %.4f", got)
	}
}

func TestCalcLotsNoStopFallsBackToFixedTable(t *testing.T) {
	// риск-режим без стопа посчитать нельзя — работаем по таблице
	if got := CalcLots(riskSnapshot(), "何小冰", "XAUUSD", 2000, 0, 10000, goldSpec); got != 0.10 {
		t.Fatalf("без стопа ожидалась таблица фиксированных лотов, got %.4f", got)
	}
}
