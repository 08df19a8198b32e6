package bitwatcher

import (
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithLogger replaces the default logger for the bot and every component
// it orchestrates
func WithLogger(log logger.Logger) Option {
	return func(bot *Bot) {
		bot.log = log
	}
}

// WithComponent registers an extra component descriptor before the built-in
// set. The registry keeps the first registration per name, so this also
// overrides a built-in component of the same name.
func WithComponent(desc *plugin.Descriptor) Option {
	return func(bot *Bot) {
		bot.extras = append(bot.extras, desc)
	}
}

// WithRegistry hands the bot a pre-populated registry instead of building
// its own
func WithRegistry(registry *plugin.Registry) Option {
	return func(bot *Bot) {
		bot.registry = registry
	}
}
