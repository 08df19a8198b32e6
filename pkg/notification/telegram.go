package notification

import (
	"fmt"
	"strings"
	"time"

	"slices"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/storage"
	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Telegram pushes signals to the authorized users and answers a few
// query commands over the signal store.
type Telegram struct {
	settings    *core.Settings
	store       storage.SignalStorage
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
	startedAt   time.Time
}

// TelegramOption configures a Telegram instance
type TelegramOption func(t *Telegram)

// NewTelegram creates and initializes the Telegram service
func NewTelegram(store storage.SignalStorage, settings *core.Settings, options ...TelegramOption) (*Telegram, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    createAuthMiddleware(poller, settings),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	setupKeyboard(menu)

	t := &Telegram{
		settings:    settings,
		store:       store,
		client:      client,
		defaultMenu: menu,
		startedAt:   time.Now(),
	}

	for _, option := range options {
		option(t)
	}

	client.Handle("/start", t.handleStart)
	client.Handle("/status", t.handleStatus)
	client.Handle("/signals", t.handleSignals)

	return t, nil
}

// createAuthMiddleware drops updates from unauthorized users
func createAuthMiddleware(poller *tb.LongPoller, settings *core.Settings) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			log.Error("message or sender is nil ", u)
			return false
		}

		if slices.Contains(settings.Telegram.Users, int(u.Message.Sender.ID)) {
			return true
		}

		log.Error("unauthorized user ", u.Message.Sender.ID)
		return false
	})
}

func setupKeyboard(menu *tb.ReplyMarkup) {
	var (
		statusBtn  = menu.Text("/status")
		signalsBtn = menu.Text("/signals")
	)

	menu.Reply(
		menu.Row(statusBtn, signalsBtn),
	)
}

// Start begins polling for commands; it blocks until Stop is called
func (t *Telegram) Start() {
	log.Info("notification/telegram: started")
	t.client.Start()
}

// Stop shuts the poller down
func (t *Telegram) Stop() {
	t.client.Stop()
}

// OnSignal implements Notifier
func (t *Telegram) OnSignal(signal *core.Signal) {
	icon := "🟢"
	if signal.Direction == core.Short {
		icon = "🔴"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s %s* (%s)\n", icon, signal.Direction, signal.Pair, signal.Timeframe)
	fmt.Fprintf(&sb, "Score: `%.2f` Agreement: `%.0f%%`\n", signal.Score, signal.Agreement*100)
	if signal.Leverage > 0 {
		fmt.Fprintf(&sb, "Leverage: `%dx`\n", signal.Leverage)
	}
	if signal.StopLoss > 0 {
		fmt.Fprintf(&sb, "Stop: `%.2f` Target: `%.2f`\n", signal.StopLoss, signal.TakeProfit)
	}

	t.broadcast(sb.String())
}

// OnError implements Notifier
func (t *Telegram) OnError(err error) {
	t.broadcast(fmt.Sprintf("🛑 *ERROR*\n`%s`", err))
}

func (t *Telegram) broadcast(message string) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, message, t.defaultMenu)
		if err != nil {
			log.WithError(err).Error("notification/telegram: failed to send message")
		}
	}
}

func (t *Telegram) handleStart(m *tb.Message) {
	_, err := t.client.Send(m.Sender, "Watching the market for you 👀", t.defaultMenu)
	if err != nil {
		log.WithError(err).Error("notification/telegram: failed to answer /start")
	}
}

func (t *Telegram) handleStatus(m *tb.Message) {
	message := fmt.Sprintf(
		"Up since `%s`\nPairs: `%s`\nTimeframes: `%s`",
		t.startedAt.Format(time.RFC1123),
		strings.Join(t.settings.Pairs, ", "),
		strings.Join(t.settings.Timeframes, ", "),
	)

	_, err := t.client.Send(m.Sender, message, t.defaultMenu)
	if err != nil {
		log.WithError(err).Error("notification/telegram: failed to answer /status")
	}
}

func (t *Telegram) handleSignals(m *tb.Message) {
	signals, err := t.store.Signals(storage.WithActionable(), storage.CreatedAfter(time.Now().Add(-24*time.Hour)))
	if err != nil {
		log.WithError(err).Error("notification/telegram: failed to read signals")
		return
	}

	if len(signals) == 0 {
		if _, err := t.client.Send(m.Sender, "No actionable signal in the last 24h", t.defaultMenu); err != nil {
			log.WithError(err).Error("notification/telegram: failed to answer /signals")
		}
		return
	}

	var sb strings.Builder
	for _, signal := range signals {
		fmt.Fprintf(&sb, "%s %s (%s) score `%.2f`\n", signal.Direction, signal.Pair, signal.Timeframe, signal.Score)
	}

	if _, err := t.client.Send(m.Sender, sb.String(), t.defaultMenu); err != nil {
		log.WithError(err).Error("notification/telegram: failed to answer /signals")
	}
}
