package delivery

import (
	"fmt"

	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
)

// DispatcherRegistry resolves dispatchers by channel
type DispatcherRegistry struct {
	dispatchers map[receipt.Channel]receipt.Dispatcher
}

// NewDispatcherRegistry creates a registry holding the given dispatchers
func NewDispatcherRegistry(dispatchers ...receipt.Dispatcher) *DispatcherRegistry {
	m := make(map[receipt.Channel]receipt.Dispatcher, len(dispatchers))
	for _, d := range dispatchers {
		m[d.Channel()] = d
	}
	return &DispatcherRegistry{dispatchers: m}
}

// Get returns the dispatcher for a channel. Unknown channels are an
// error, never a silent no-op.
func (r *DispatcherRegistry) Get(channel receipt.Channel) (receipt.Dispatcher, error) {
	d, ok := r.dispatchers[channel]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeUnsupportedChannel,
			fmt.Sprintf("Unsupported delivery channel: %s", channel))
	}
	return d, nil
}

var _ receipt.Registry = (*DispatcherRegistry)(nil)
