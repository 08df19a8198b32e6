package plugins

import (
	"context"
	"fmt"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/notification"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// Notifier forwards actionable signals to the configured channels
type Notifier struct {
	plugin.Base
	log logger.Logger

	manager  *StorageManager
	channels []notification.Notifier
	telegram *notification.Telegram
	connect  func(n *Notifier) error
}

// NotifierDescriptor registers the notification component
func NotifierDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameNotifier, Category: plugin.CategoryPlugin, Tags: []string{TagReport}},
		DependsOn: func() []string { return []string{NameSignals, NameStorageManager} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			manager, ok := deps.Get(NameStorageManager).(*StorageManager)
			if !ok {
				return nil, fmt.Errorf("notifier needs the storage manager")
			}
			n := &Notifier{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameNotifier, Category: plugin.CategoryPlugin, Tags: []string{TagReport},
				}},
				log:     log,
				manager: manager,
			}
			n.connect = connectTelegram
			return n, nil
		},
	}
}

// Initialize connects the enabled channels. With none enabled the
// component stays live as a no-op.
func (n *Notifier) Initialize(settings *core.Settings) error {
	if n.Initialized() {
		return nil
	}
	n.Settings = settings

	if settings != nil && settings.Telegram.Enabled {
		if err := n.connect(n); err != nil {
			return fmt.Errorf("telegram setup: %w", err)
		}
	}

	if settings != nil && settings.Mail.Enabled {
		n.channels = append(n.channels, notification.NewMail(notification.MailParams{
			SMTPServerAddress: settings.Mail.SMTPHost,
			SMTPServerPort:    settings.Mail.SMTPPort,
			From:              settings.Mail.From,
			To:                settings.Mail.To,
			Password:          settings.Mail.Password,
		}))
	}

	n.Ready(settings)
	return nil
}

func connectTelegram(n *Notifier) error {
	telegram, err := notification.NewTelegram(n.manager.Store(), n.Settings)
	if err != nil {
		return err
	}

	n.telegram = telegram
	n.channels = append(n.channels, telegram)
	go telegram.Start()
	return nil
}

// Execute pushes the batch signal when it is worth acting on
func (n *Notifier) Execute(ctx context.Context, batch *core.Batch) error {
	if batch.Signal == nil || !batch.Signal.Actionable() {
		return nil
	}

	for _, channel := range n.channels {
		channel.OnSignal(batch.Signal)
	}
	return nil
}

// Finalize stops the channels
func (n *Notifier) Finalize() {
	if n.telegram != nil {
		n.telegram.Stop()
		n.telegram = nil
	}
	n.channels = nil
	n.Reset()
}
