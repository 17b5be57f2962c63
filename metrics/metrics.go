// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a singleton service providing global access to a set of
// meters. It defaults to a no-op implementation; the prometheus one is
// enabled explicitly at startup.
package metrics

import (
	"math"
	"math/big"
	"net/http"
	"sync"
)

var metrics Metrics = noopMetrics{}

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHandler() http.Handler
}

// CountMeter is a cumulative metric that represents a single monotonically
// increasing counter.
type CountMeter interface {
	Add(int64)
}

// GaugeMeter is a metric that represents a single value that can go up and down.
type GaugeMeter interface {
	Set(int64)
}

// Counter returns a count meter with the given name.
func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

// Gauge returns a gauge meter with the given name.
func Gauge(name string) GaugeMeter { return metrics.GetOrCreateGaugeMeter(name) }

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler { return metrics.GetOrCreateHandler() }

// LazyLoad defers the instantiation of a meter to its first use. Meters
// declared at package level must go through it, otherwise they bind to the
// implementation active at init time instead of the one enabled at startup.
func LazyLoad[T any](f func() T) func() T {
	var result T
	var once sync.Once
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter {
		return Counter(name)
	})
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter {
		return Gauge(name)
	})
}

// FromBig converts v for feeding a meter, saturating at the int64 range so
// full-scale token amounts never wrap negative.
func FromBig(v *big.Int) int64 {
	if v.IsInt64() {
		return v.Int64()
	}
	if v.Sign() > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}

type noopMetrics struct{}

type noopMeter struct{}

func (noopMeter) Add(int64) {}
func (noopMeter) Set(int64) {}

func (noopMetrics) GetOrCreateCountMeter(string) CountMeter { return noopMeter{} }
func (noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter { return noopMeter{} }
func (noopMetrics) GetOrCreateHandler() http.Handler {
	return http.NotFoundHandler()
}
