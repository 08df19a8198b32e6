package plugins

import (
	"context"
	"testing"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/stretchr/testify/require"
)

// recordingChannel captures delivered signals
type recordingChannel struct {
	signals []*core.Signal
	errors  []error
}

func (r *recordingChannel) OnSignal(signal *core.Signal) { r.signals = append(r.signals, signal) }
func (r *recordingChannel) OnError(err error)            { r.errors = append(r.errors, err) }

func newNotifier(t *testing.T, settings *core.Settings) *Notifier {
	t.Helper()

	manager := NewStorageManager(testLog())
	require.NoError(t, manager.Initialize(settings))
	t.Cleanup(manager.Finalize)

	inst, err := NotifierDescriptor(testLog()).New(plugin.Deps{NameStorageManager: manager})
	require.NoError(t, err)

	n := inst.(*Notifier)
	n.connect = func(*Notifier) error { return nil }
	require.NoError(t, n.Initialize(settings))
	return n
}

func TestNotifier_MailChannelEnabled(t *testing.T) {
	settings := testSettings()
	settings.Mail = core.MailSettings{
		Enabled:  true,
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		From:     "bot@example.com",
		To:       "trader@example.com",
	}

	n := newNotifier(t, settings)
	require.Len(t, n.channels, 1)
}

func TestNotifier_NoChannelsIsNoOp(t *testing.T) {
	n := newNotifier(t, testSettings())
	require.Empty(t, n.channels)

	batch := validatedBatch(120)
	batch.Signal = &core.Signal{Pair: "BTCUSDT", Direction: core.Long, Score: 0.8}
	require.NoError(t, n.Execute(context.Background(), batch))
}

func TestNotifier_PushesActionableSignalsOnly(t *testing.T) {
	n := newNotifier(t, testSettings())

	channel := &recordingChannel{}
	n.channels = append(n.channels, channel)

	batch := validatedBatch(120)
	batch.Signal = &core.Signal{Pair: "BTCUSDT", Direction: core.Neutral}
	require.NoError(t, n.Execute(context.Background(), batch))
	require.Empty(t, channel.signals)

	batch.Signal = &core.Signal{Pair: "BTCUSDT", Direction: core.Long, Score: 0.8}
	require.NoError(t, n.Execute(context.Background(), batch))
	require.Len(t, channel.signals, 1)
}
