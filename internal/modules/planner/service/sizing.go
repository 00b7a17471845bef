package service

import (
	"github.com/13magician/kol-gold/internal/helper"
	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/internal/modules/config"
	"github.com/13magician/kol-gold/pkg/logger"
)

const (
	// минимально торгуемый лот — страховочный объём для всех деградаций
	minTradableLot = 0.01
	// если площадка не отдала размер контракта, считаем как для золота
	fallbackContractSize = 100.0
)

// CalcLots — "以损定仓": объём от допустимого убытка на стоп.
//
//	risk_amount  = balance * rate
//	stop_dist    = |entry - sl|
//	raw_lots     = risk_amount / (stop_dist * contract_size)
//
// Округление к ближайшему шагу площадки, затем зажим в [min, max].
// Любая деградация входных данных (нет баланса, нулевой стоп, нет
// спецификации) тихо падает в минимальный лот: лучше безопасно войти,
// чем уронить весь сигнал.
func CalcLots(
	snap *config.MoneySnapshot,
	kol, symbol string,
	entry, sl, balance float64,
	spec models.ContractSpec,
) float64 {
	// фиксированный режим и вырожденные входы — таблица лотов
	if snap.Mode != config.MoneyModeRisk || sl == 0 || entry == 0 {
		return snap.FixedLots(kol)
	}

	if balance <= 0 {
		logger.Warn("⚠️ [sizing] баланс недоступен (%.2f), деградация до %.2f лота", balance, minTradableLot)
		return minTradableLot
	}

	riskAmount := balance * snap.RiskRate(symbol)

	stopDist := entry - sl
	if stopDist < 0 {
		stopDist = -stopDist
	}
	if stopDist == 0 {
		return minTradableLot
	}

	contractSize := spec.ContractSize
	if contractSize <= 0 {
		logger.Warn("⚠️ [sizing] нет размера контракта для %s, берём %.1f", symbol, fallbackContractSize)
		contractSize = fallbackContractSize
	}

	lots := riskAmount / (stopDist * contractSize)
	logger.Info("🧮 [sizing] %s: баланс %.0f | риск $%.1f | стоп-дист %.2f | контракт %.0f -> %.4f",
		symbol, balance, riskAmount, stopDist, contractSize, lots)

	// к ближайшему шагу, не вниз: 0.017 должно стать 0.02, а не 0.01
	step := spec.VolumeStep
	if step <= 0 {
		step = minTradableLot
	}
	lots = helper.RoundToStep(lots, step)

	if lots > snap.MaxLots {
		lots = snap.MaxLots
	}
	if lots < snap.MinLots {
		lots = snap.MinLots
	}
	return lots
}
