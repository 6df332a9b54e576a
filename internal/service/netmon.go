// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import (
	"context"
	"sync"
	"time"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

// NetworkMonitor tracks connectivity as a single snapshot replaced on every
// event. The platform shell reports transport changes; the monitor verifies
// actual cloud reachability with a periodic ping. A disconnected-to-connected
// transition wakes the sync queue.
type NetworkMonitor struct {
	cloud    adapter.CloudStore
	interval time.Duration
	logger   *logger.Logger

	mu    sync.RWMutex
	state models.NetworkState
	waker Waker
}

func NewNetworkMonitor(cloud adapter.CloudStore, interval time.Duration, log *logger.Logger) *NetworkMonitor {
	return &NetworkMonitor{
		cloud:    cloud,
		interval: interval,
		logger:   log,
		state: models.NetworkState{
			Transport: models.TransportNone,
			Reachable: models.ReachableUnknown,
		},
	}
}

// Notify registers the waker called on reconnect. Must be set before Start.
func (m *NetworkMonitor) Notify(w Waker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.waker = w
}

// State returns the current connectivity snapshot.
func (m *NetworkMonitor) State() models.NetworkState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Start probes the cloud endpoint on a fixed interval until ctx is
// cancelled. One probe runs immediately.
func (m *NetworkMonitor) Start(ctx context.Context) {
	m.logger.Info().Dur("interval", m.interval).Msg("network monitor started")
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("network monitor stopped")
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

// Probe pings the cloud endpoint once and applies the verdict.
func (m *NetworkMonitor) Probe(ctx context.Context) {
	reachable := models.ReachableYes
	if err := m.cloud.Ping(ctx); err != nil {
		reachable = models.ReachableNo
		m.logger.Debug().Err(err).Msg("cloud ping failed")
	}

	m.apply(func(s *models.NetworkState) {
		s.Reachable = reachable
		s.Connected = reachable == models.ReachableYes && s.Transport != models.TransportNone
	})
}

// SetTransport records a transport change reported by the platform shell.
// Losing the transport marks the device offline without waiting for the next
// probe; gaining one leaves reachability to the prober.
func (m *NetworkMonitor) SetTransport(t models.Transport) {
	m.apply(func(s *models.NetworkState) {
		s.Transport = t
		if t == models.TransportNone {
			s.Connected = false
			s.Reachable = models.ReachableUnknown
		} else {
			s.Connected = s.Reachable == models.ReachableYes
		}
	})
}

// Foreground signals that the app returned to the foreground. A connected
// device gets an immediate queue pass instead of waiting for the next probe.
func (m *NetworkMonitor) Foreground() {
	m.mu.RLock()
	connected, waker := m.state.Connected, m.waker
	m.mu.RUnlock()

	if connected && waker != nil {
		waker.Wake()
	}
}

// apply mutates the snapshot under the lock and wakes the queue on a
// disconnected-to-connected transition.
func (m *NetworkMonitor) apply(mutate func(*models.NetworkState)) {
	m.mu.Lock()
	wasConnected := m.state.Connected
	mutate(&m.state)
	nowConnected := m.state.Connected
	waker := m.waker
	m.mu.Unlock()

	if !wasConnected && nowConnected {
		m.logger.Info().Msg("connectivity restored")
		if waker != nil {
			waker.Wake()
		}
	}
	if wasConnected && !nowConnected {
		m.logger.Info().Msg("connectivity lost")
	}
}
