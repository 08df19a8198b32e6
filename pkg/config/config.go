// Package config loads the application settings using Viper: secrets
// come from environment variables, tunables from a YAML file that is
// created with defaults when missing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/spf13/viper"
)

const (
	DefaultConfigPath     = "./bitwatcher.yaml"
	DefaultStoragePath    = "./bitwatcher.db"
	DefaultDependencyFile = "./dependencies.json"
)

// Load builds the settings from the environment plus the YAML file at
// CONFIG_PATH. A missing or unreadable file falls back to defaults and
// a default file is written so the operator has something to edit.
func Load(log logger.Logger) (*core.Settings, error) {
	viper.AutomaticEnv()

	viper.SetDefault("CONFIG_PATH", DefaultConfigPath)
	viper.SetDefault("STORAGE_PATH", DefaultStoragePath)
	viper.SetDefault("STORAGE_DRIVER", "buntdb")
	viper.SetDefault("DEPENDENCY_FILE", DefaultDependencyFile)
	viper.SetDefault("BINANCE_USE_TESTNET", false)
	viper.SetDefault("TELEGRAM_ENABLED", false)
	viper.SetDefault("MAIL_ENABLED", false)
	viper.SetDefault("MAIL_SMTP_PORT", 587)
	viper.SetDefault("SENTIMENT_ENABLED", true)
	viper.SetDefault("SENTIMENT_TTL", "1h")

	settings := defaultSettings()

	settings.Storage.Driver = viper.GetString("STORAGE_DRIVER")
	settings.Storage.Path = viper.GetString("STORAGE_PATH")
	settings.DependencyFile = viper.GetString("DEPENDENCY_FILE")
	settings.Binance = core.BinanceSettings{
		APIKey:     viper.GetString("BINANCE_API_KEY"),
		APISecret:  viper.GetString("BINANCE_SECRET_KEY"),
		UseTestnet: viper.GetBool("BINANCE_USE_TESTNET"),
	}
	settings.Telegram = core.TelegramSettings{
		Enabled: viper.GetBool("TELEGRAM_ENABLED"),
		Token:   viper.GetString("TELEGRAM_TOKEN"),
		Users:   viper.GetIntSlice("TELEGRAM_USERS"),
	}
	settings.Sentiment = core.SentimentSettings{
		Enabled: viper.GetBool("SENTIMENT_ENABLED"),
		TTL:     viper.GetString("SENTIMENT_TTL"),
	}
	settings.Mail = core.MailSettings{
		Enabled:  viper.GetBool("MAIL_ENABLED"),
		SMTPHost: viper.GetString("MAIL_SMTP_HOST"),
		SMTPPort: viper.GetInt("MAIL_SMTP_PORT"),
		From:     viper.GetString("MAIL_FROM"),
		To:       viper.GetString("MAIL_TO"),
		Password: viper.GetString("MAIL_PASSWORD"),
	}

	if err := mergeFile(viper.GetString("CONFIG_PATH"), settings, log); err != nil {
		return nil, err
	}

	return settings, nil
}

func defaultSettings() *core.Settings {
	return &core.Settings{
		Pairs:       []string{"BTCUSDT", "ETHUSDT"},
		Timeframes:  []string{"15m", "1h", "4h"},
		CandleLimit: 200,
		Interval:    "1m",
		SignalWeights: map[string]float64{
			"trend":        1.5,
			"averages":     1.2,
			"oscillators":  1.0,
			"patterns":     0.8,
			"volume":       0.8,
			"price_action": 1.0,
		},
	}
}

// fileSettings is the YAML shape of the tunable part of the settings.
type fileSettings struct {
	Pairs         []string           `mapstructure:"pairs"`
	Timeframes    []string           `mapstructure:"timeframes"`
	CandleLimit   int                `mapstructure:"candle_limit"`
	Interval      string             `mapstructure:"interval"`
	SignalWeights map[string]float64 `mapstructure:"signal_weights"`
}

func mergeFile(path string, settings *core.Settings, log logger.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return saveDefaultFile(path, settings, log)
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		log.WithFields(map[string]any{
			"error": err,
			"path":  path,
		}).Error("Failed to load configuration file")
		return saveDefaultFile(path, settings, log)
	}

	file := &fileSettings{}
	if err := v.Unmarshal(file); err != nil {
		return fmt.Errorf("could not parse configuration %s: %w", path, err)
	}

	if len(file.Pairs) > 0 {
		settings.Pairs = file.Pairs
	}
	if len(file.Timeframes) > 0 {
		settings.Timeframes = file.Timeframes
	}
	if file.CandleLimit > 0 {
		settings.CandleLimit = file.CandleLimit
	}
	if file.Interval != "" {
		settings.Interval = file.Interval
	}
	if len(file.SignalWeights) > 0 {
		settings.SignalWeights = file.SignalWeights
	}

	return nil
}

func saveDefaultFile(path string, settings *core.Settings, log logger.Logger) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error("Could not create configuration directory")
			return nil
		}
	}

	v := viper.New()
	v.Set("pairs", settings.Pairs)
	v.Set("timeframes", settings.Timeframes)
	v.Set("candle_limit", settings.CandleLimit)
	v.Set("interval", settings.Interval)
	v.Set("signal_weights", settings.SignalWeights)
	v.SetConfigFile(path)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("could not save default configuration: %w", err)
	}

	log.WithFields(map[string]any{
		"path": path,
	}).Info("Default configuration file created")

	return nil
}
