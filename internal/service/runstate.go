// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import "sync"

// runState names what the replication core is doing right now. Queue passes
// and cloud restores are mutually exclusive; the gate below enforces it.
type runState int

const (
	stateIdle runState = iota
	stateQueueing
	stateDownloading
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateQueueing:
		return "queueing"
	case stateDownloading:
		return "downloading"
	}
	return "unknown"
}

// runGate serialises the two long-running replication activities. A caller
// that fails to acquire the gate gives up immediately instead of queueing;
// the wake channel re-triggers queue passes, and a second concurrent restore
// is an error by contract.
type runGate struct {
	mu    sync.Mutex
	state runState
}

// tryBegin moves the gate from idle to next. Returns false without blocking
// when the gate is already held.
func (g *runGate) tryBegin(next runState) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateIdle {
		return false
	}
	g.state = next

	return true
}

// end releases the gate. Must only be called by the holder.
func (g *runGate) end() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = stateIdle
}

// current returns the gate's state for observability.
func (g *runGate) current() runState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}
