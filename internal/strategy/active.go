package strategy

import (
	"sync/atomic"
)

// The active config is shared by every reader in the process (handlers,
// cron jobs, the proposal worker). Because a StrategyConfig is immutable
// after Parse, a single atomic pointer swap is all the synchronization a
// replacement needs: readers either see the old config or the new one,
// never a mix.
var active atomic.Pointer[StrategyConfig]

// Active returns the currently active config, or nil before bootstrap.
func Active() *StrategyConfig {
	return active.Load()
}

// Activate swaps the active config. The caller must pass a config produced
// by Parse or Merge; partial or hand-built values defeat the immutability
// guarantee.
func Activate(cfg *StrategyConfig) {
	active.Store(cfg)
}
