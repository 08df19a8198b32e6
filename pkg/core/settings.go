package core

// Settings represents the main configuration for the application
type Settings struct {
	Pairs       []string // Trading pairs to analyze
	Timeframes  []string // Timeframes to analyze per pair
	CandleLimit int      // Candles fetched per batch
	Interval    string   // Delay between analysis cycles (e.g. "1m")

	Storage   StorageSettings   // Signal persistence settings
	Binance   BinanceSettings   // Exchange credentials
	Telegram  TelegramSettings  // Telegram notification settings
	Mail      MailSettings      // SMTP notification settings
	Sentiment SentimentSettings // External market mood enrichment

	// Consolidation weights by contribution name; missing entries default to 1.0
	SignalWeights map[string]float64

	// Path of the dependency snapshot written by the orchestrator
	DependencyFile string
}

// StorageSettings holds signal persistence configuration
type StorageSettings struct {
	Driver string // "buntdb" or "sql"
	Path   string // database file path for buntdb
}

// BinanceSettings holds Binance exchange configuration
type BinanceSettings struct {
	APIKey     string
	APISecret  string
	UseTestnet bool
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Enabled bool   // Whether Telegram notifications are enabled
	Token   string // Telegram bot token
	Users   []int  // List of authorized user IDs
}

// SentimentSettings controls the Fear & Greed index enrichment. The
// fetch hits an external HTTP API, so it is opt-in.
type SentimentSettings struct {
	Enabled bool
	TTL     string // cache duration, e.g. "1h"
}

// MailSettings holds configuration for SMTP notifications
type MailSettings struct {
	Enabled  bool
	SMTPHost string
	SMTPPort int
	From     string
	To       string
	Password string
}
