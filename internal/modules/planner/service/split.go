package service

import (
	"github.com/13magician/kol-gold/internal/helper"
)

// Leg — одна нога разбитого плана: свой объём и свой тейк.
type Leg struct {
	Volume float64
	TP     float64
}

// SplitPlan раскладывает общий объём по тейкам сигнала.
//
// Если объёма не хватает на все ноги (total < step*N), весь объём
// уходит одной ногой на первый тейк. Иначе каждая нога получает
// базу floor(total/N по шагу), а остаток раздаётся по одному шагу
// первым ногам: 0.05 на три тейка -> 0.02 / 0.02 / 0.01.
func SplitPlan(totalLots float64, tps []float64, step float64) []Leg {
	if totalLots <= 0 {
		return nil
	}
	if step <= 0 {
		step = 0.01
	}
	if len(tps) == 0 {
		return []Leg{{Volume: helper.RoundToStep(totalLots, step)}}
	}

	n := len(tps)
	if totalLots < step*float64(n)-1e-9 {
		// схлопываем в одну ногу на ближайший тейк
		return []Leg{{Volume: helper.RoundToStep(totalLots, step), TP: tps[0]}}
	}

	base := helper.FloorToStep(totalLots/float64(n), step)
	legs := make([]Leg, n)
	for i, tp := range tps {
		legs[i] = Leg{Volume: base, TP: tp}
	}

	// остаток — по шагу первым ногам
	remainder := helper.RoundToStep(totalLots-base*float64(n), step)
	for i := 0; remainder > 1e-9 && i < n; i++ {
		legs[i].Volume = helper.RoundToStep(legs[i].Volume+step, step)
		remainder -= step
	}
	return legs
}
