// Package notification delivers consolidated signals to the operator.
// Telegram is the primary channel; mail is available as a fallback.
package notification

import "github.com/raykavin/bitwatcher/pkg/core"

// Notifier receives the consolidated signals and pipeline errors
type Notifier interface {
	OnSignal(signal *core.Signal)
	OnError(err error)
}
