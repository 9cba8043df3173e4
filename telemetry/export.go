package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Figures are the evaluation numbers exported next to resource usage.
type Figures struct {
	Total    int
	Correct  int
	Accuracy float64
}

// Export writes usage and figures for phase to path in the Prometheus
// textfile format, replacing any previous file.
func Export(path, phase string, u Usage, f *Figures) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"phase": phase}
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "vecbench",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(v)
		reg.MustRegister(g)
	}
	gauge("elapsed_seconds", "Wall time of the phase.", u.Elapsed.Seconds())
	gauge("memory_delta_bytes", "Change in resident memory over the phase.", float64(u.MemoryDeltaBytes))
	gauge("cpu_percent", "CPU time over wall time, in percent.", u.CPUPercent)
	if f != nil {
		gauge("queries_total", "Evaluated query rows.", float64(f.Total))
		gauge("queries_correct", "Query rows whose nearest neighbour was the row itself.", float64(f.Correct))
		gauge("accuracy_ratio", "Correct over total query rows.", f.Accuracy)
	}
	return prometheus.WriteToTextfile(path, reg)
}
