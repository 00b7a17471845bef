package config

import "go.uber.org/fx"

// Module регистрируем конфиг и money-снимок как fx-провайдеры.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
			NewMoney,
		),
	)
}
