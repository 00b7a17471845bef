package helper

import (
	"math"
	"strings"
)

// RoundToStep округляет объём к БЛИЖАЙШЕМУ шагу (не вниз!), чтобы 0.017
// не резалось в 0.01 — для маленьких депозитов это критично.
func RoundToStep(vol, step float64) float64 {
	if step <= 0 {
		return vol
	}
	steps := math.Round(vol/step + 1e-12)
	return Round2(steps * step)
}

// FloorToStep округляет объём вниз к шагу.
func FloorToStep(vol, step float64) float64 {
	if step <= 0 {
		return vol
	}
	steps := math.Floor(vol/step + 1e-12)
	return Round2(steps * step)
}

// Round2 — округление до двух знаков, как хранит лоты MT5.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func IsBuy(direction string) bool  { return strings.HasPrefix(direction, "BUY") }
func IsSell(direction string) bool { return strings.HasPrefix(direction, "SELL") }

func IsLimit(direction string) bool { return strings.HasSuffix(direction, "_LIMIT") }
func IsStop(direction string) bool  { return strings.HasSuffix(direction, "_STOP") }

// IsMarket — рыночный вариант (без суффикса отложенного типа).
func IsMarket(direction string) bool { return !IsLimit(direction) && !IsStop(direction) }

// MarketVariant возвращает рыночный вариант той же стороны.
func MarketVariant(direction string) string {
	if IsBuy(direction) {
		return "BUY"
	}
	return "SELL"
}

// LimitVariant возвращает лимитный вариант той же стороны.
func LimitVariant(direction string) string {
	if IsBuy(direction) {
		return "BUY_LIMIT"
	}
	return "SELL_LIMIT"
}
