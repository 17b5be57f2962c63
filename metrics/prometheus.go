// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberfi/ember/log"
)

const namespace = "ember_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics sets the prometheus implementation as the
// default metrics service. It cannot be reset.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	counters sync.Map
	gauges   sync.Map
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	if mapItem, ok := o.counters.Load(name); ok {
		return mapItem.(CountMeter)
	}
	meter := o.newCountMeter(name)
	o.counters.Store(name, meter)
	return meter
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	if mapItem, ok := o.gauges.Load(name); ok {
		return mapItem.(GaugeMeter)
	}
	meter := o.newGaugeMeter(name)
	o.gauges.Store(name, meter)
	return meter
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

func (o *prometheusMetrics) newCountMeter(name string) CountMeter {
	meter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	})
	if err := prometheus.Register(meter); err != nil {
		logger.Warn("unable to register metric", "name", name, "error", err)
	}
	return &promCountMeter{counter: meter}
}

func (o *prometheusMetrics) newGaugeMeter(name string) GaugeMeter {
	meter := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
	})
	if err := prometheus.Register(meter); err != nil {
		logger.Warn("unable to register metric", "name", name, "error", err)
	}
	return &promGaugeMeter{gauge: meter}
}

type promCountMeter struct {
	counter prometheus.Counter
}

func (c *promCountMeter) Add(i int64) {
	c.counter.Add(float64(i))
}

type promGaugeMeter struct {
	gauge prometheus.Gauge
}

func (g *promGaugeMeter) Set(i int64) {
	g.gauge.Set(float64(i))
}
