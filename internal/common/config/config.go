// Package config loads process configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const defaultBankDetails = `Реквизиты для оплаты:
Т-Банк
Номер карты: 2200 7013 5987 4903
Получатель: Алексей М.`

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Telegram struct {
		BotToken string  `env:"BOT_TOKEN,required"`
		AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	}

	Payments struct {
		TONWallet   string `env:"TON_WALLET"`
		USDTWallet  string `env:"USDT_WALLET"`
		BankDetails string `env:"BANK_DETAILS"`
	}

	Store struct {
		DataPath string `env:"DATA_PATH" envDefault:"data/data.json"`
	}

	Rates struct {
		BaseURL string `env:"RATES_BASE_URL" envDefault:"https://api.coingecko.com"`
	}
}

func Load() *Config {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	if cfg.Payments.BankDetails == "" {
		cfg.Payments.BankDetails = defaultBankDetails
	}

	return cfg
}
