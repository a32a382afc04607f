// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package zmqmetrics exposes a Pool's statistics as Prometheus metrics.
// It is a separate package specifically so that the root zmq package
// carries no dependency on Prometheus: a caller who does not want metrics
// pays nothing for this import, and github.com/prometheus/client_golang
// only enters a binary's closure when this package is imported.
package zmqmetrics

import (
	"strconv"

	"code.hybscloud.com/zmq"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a *zmq.Pool into a prometheus.Collector, reporting
// TotalRents, TotalReturns, PoolHits, PoolMisses, and PoolRejects as
// counters and per-bucket PooledCount as a gauge vector.
type Collector struct {
	pool *zmq.Pool
	name string

	rents    *prometheus.Desc
	returns  *prometheus.Desc
	hits     *prometheus.Desc
	misses   *prometheus.Desc
	rejects  *prometheus.Desc
	occupied *prometheus.Desc
}

// NewCollector returns a Collector for pool, labelling its metrics with
// name (e.g. the Pool's logical role within the application).
func NewCollector(pool *zmq.Pool, name string) *Collector {
	constLabels := prometheus.Labels{"pool": name}
	return &Collector{
		pool: pool,
		name: name,
		rents: prometheus.NewDesc("zmq_pool_rents_total",
			"Total Messages rented from the pool.", nil, constLabels),
		returns: prometheus.NewDesc("zmq_pool_returns_total",
			"Total Messages returned to the pool.", nil, constLabels),
		hits: prometheus.NewDesc("zmq_pool_hits_total",
			"Total rents served from an already-pooled Message.", nil, constLabels),
		misses: prometheus.NewDesc("zmq_pool_misses_total",
			"Total rents that required a new native allocation.", nil, constLabels),
		rejects: prometheus.NewDesc("zmq_pool_rejects_total",
			"Total returns that found their bucket at capacity and were deep-freed.", nil, constLabels),
		occupied: prometheus.NewDesc("zmq_pool_bucket_occupied",
			"Current number of pooled Messages available in a bucket.",
			[]string{"bucket_index", "bucket_size"}, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rents
	ch <- c.returns
	ch <- c.hits
	ch <- c.misses
	ch <- c.rejects
	ch <- c.occupied
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.rents, prometheus.CounterValue, float64(stats.TotalRents))
	ch <- prometheus.MustNewConstMetric(c.returns, prometheus.CounterValue, float64(stats.TotalReturns))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.PoolHits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.PoolMisses))
	ch <- prometheus.MustNewConstMetric(c.rejects, prometheus.CounterValue, float64(stats.PoolRejects))

	for i := 0; i < zmq.NumBuckets(); i++ {
		count, err := c.pool.PooledCount(i)
		if err != nil {
			continue
		}
		size, err := zmq.BucketSize(i)
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue,
			float64(count),
			strconv.Itoa(i), strconv.Itoa(size))
	}
}
