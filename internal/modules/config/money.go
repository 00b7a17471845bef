package config

import (
	"strings"
	"sync/atomic"

	"github.com/13magician/kol-gold/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Режимы money-менеджмента.
const (
	MoneyModeFixed = "fixed" // фиксированные лоты по таблице KOL
	MoneyModeRisk  = "risk"  // "以损定仓": объём от риска на стоп
)

// moneyFile — схема yaml-файла money-менеджмента.
type moneyFile struct {
	Mode  string `mapstructure:"mode"`
	Fixed struct {
		Default float64            `mapstructure:"default"`
		Table   map[string]float64 `mapstructure:"table"`
	} `mapstructure:"fixed"`
	Risk struct {
		DefaultRate float64            `mapstructure:"default_rate"`
		SymbolRates map[string]float64 `mapstructure:"symbol_rates"`
		MinLots     float64            `mapstructure:"min_lots"`
		MaxLots     float64            `mapstructure:"max_lots"`
	} `mapstructure:"risk"`
}

// MoneySnapshot — иммутабельный снимок настроек. Никогда не мутируется
// на месте: перечитка файла собирает новый снимок и атомарно подменяет
// указатель.
type MoneySnapshot struct {
	Mode string

	FixedDefault float64
	FixedByKOL   map[string]float64

	DefaultRiskRate float64
	SymbolRiskRates map[string]float64
	MinLots         float64
	MaxLots         float64
}

// FixedLots — лоты для KOL по нечёткому совпадению имени, иначе дефолт.
func (s *MoneySnapshot) FixedLots(kol string) float64 {
	for key, vol := range s.FixedByKOL {
		if strings.Contains(kol, key) {
			return vol
		}
	}
	return s.FixedDefault
}

// RiskRate — риск-ставка: если ключевое слово встречается в символе
// (XAU в XAUUSDm и т.п.), берём особую ставку, иначе дефолтную.
func (s *MoneySnapshot) RiskRate(symbol string) float64 {
	up := strings.ToUpper(symbol)
	for kw, rate := range s.SymbolRiskRates {
		if strings.Contains(up, strings.ToUpper(kw)) {
			return rate
		}
	}
	return s.DefaultRiskRate
}

// Money держит текущий снимок и умеет перечитывать файл.
type Money struct {
	v   *viper.Viper
	cur atomic.Pointer[MoneySnapshot]
}

func NewMoney(cfg *Config) (*Money, error) {
	m := &Money{v: viper.New()}
	m.v.SetConfigFile(cfg.MoneyFile)

	if err := m.v.ReadInConfig(); err != nil {
		// файла может не быть — работаем на дефолтах, но предупреждаем
		logger.Warn("⚠️ money-config %s не прочитан (%v), работаем на дефолтах", cfg.MoneyFile, err)
		m.cur.Store(defaultMoneySnapshot())
		return m, nil
	}

	snap, err := m.build()
	if err != nil {
		return nil, err
	}
	m.cur.Store(snap)

	m.v.OnConfigChange(func(in fsnotify.Event) {
		if err := m.Reload(); err != nil {
			logger.Error("❌ money-config reload: %v", err)
		}
	})
	m.v.WatchConfig()

	return m, nil
}

// NewMoneyFromSnapshot оборачивает готовый снимок без файла и вотчера.
func NewMoneyFromSnapshot(s *MoneySnapshot) *Money {
	m := &Money{}
	m.cur.Store(s)
	return m
}

// Snapshot возвращает текущий иммутабельный снимок.
func (m *Money) Snapshot() *MoneySnapshot {
	return m.cur.Load()
}

// Reload перечитывает файл и атомарно подменяет снимок.
func (m *Money) Reload() error {
	if m.v == nil {
		return nil
	}
	if err := m.v.ReadInConfig(); err != nil {
		return err
	}
	snap, err := m.build()
	if err != nil {
		return err
	}
	m.cur.Store(snap)
	logger.Info("🔁 money-config перечитан: mode=%s", snap.Mode)
	return nil
}

func (m *Money) build() (*MoneySnapshot, error) {
	var f moneyFile
	if err := m.v.Unmarshal(&f); err != nil {
		return nil, err
	}

	snap := defaultMoneySnapshot()
	if f.Mode != "" {
		snap.Mode = f.Mode
	}
	if f.Fixed.Default > 0 {
		snap.FixedDefault = f.Fixed.Default
	}
	if len(f.Fixed.Table) > 0 {
		snap.FixedByKOL = f.Fixed.Table
	}
	if f.Risk.DefaultRate > 0 {
		snap.DefaultRiskRate = f.Risk.DefaultRate
	}
	if len(f.Risk.SymbolRates) > 0 {
		snap.SymbolRiskRates = f.Risk.SymbolRates
	}
	if f.Risk.MinLots > 0 {
		snap.MinLots = f.Risk.MinLots
	}
	if f.Risk.MaxLots > 0 {
		snap.MaxLots = f.Risk.MaxLots
	}
	return snap, nil
}

func defaultMoneySnapshot() *MoneySnapshot {
	return &MoneySnapshot{
		Mode:            MoneyModeFixed,
		FixedDefault:    0.05,
		FixedByKOL:      map[string]float64{},
		DefaultRiskRate: 0.03,
		SymbolRiskRates: map[string]float64{},
		MinLots:         0.01,
		MaxLots:         10.0,
	}
}
