// Package metrics exports the occupancy of a tree's slot pool and the operations
// issued against it as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/INLOpen/vectree"
)

// StatsSource is anything that can report pool statistics, such as a *vectree.Tree
// or a *vectree.Synced. Stats is called on every scrape.
type StatsSource interface {
	Stats() vectree.Stats
}

// Collector implements prometheus.Collector. Pool gauges are read from the source at
// scrape time; operation counters are fed through ObserveOp.
type Collector struct {
	src StatsSource

	nodes    *prometheus.Desc
	capacity *prometheus.Desc
	free     *prometheus.Desc
	grows    *prometheus.Desc
	ops      *prometheus.CounterVec
}

// NewCollector returns a collector for src with metric names prefixed by namespace.
func NewCollector(namespace string, src StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, nil)
	}
	return &Collector{
		src:      src,
		nodes:    desc("nodes", "Live nodes in the tree"),
		capacity: desc("capacity_slots", "Slots in the pool, occupied or free"),
		free:     desc("free_slots", "Slots on the free list"),
		grows:    desc("grows_total", "Automatic pool growths"),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tree operations by name and whether the tree applied them",
		}, []string{"op", "applied"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.capacity
	ch <- c.free
	ch <- c.grows
	c.ops.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(s.Free))
	ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(s.Grows))
	c.ops.Collect(ch)
}

// ObserveOp counts one operation. It satisfies workload.Observer.
func (c *Collector) ObserveOp(op string, applied bool) {
	c.ops.WithLabelValues(op, strconv.FormatBool(applied)).Inc()
}
