package dashboard

import "github.com/prometheus/client_golang/prometheus"

// StatsGauges publishes the last computed Stats.
type StatsGauges struct {
	records *prometheus.GaugeVec
}

// NewStatsGauges registers the gauges with reg. A nil reg keeps them unregistered.
func NewStatsGauges(reg prometheus.Registerer) *StatsGauges {
	g := &StatsGauges{
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waitlist_records",
			Help: "Waitlist records by window as of the last refresh.",
		}, []string{"window"}),
	}
	if reg != nil {
		reg.MustRegister(g.records)
	}
	return g
}

func (g *StatsGauges) Observe(stats Stats) {
	g.records.WithLabelValues(string(WindowAll)).Set(float64(stats.Total))
	g.records.WithLabelValues(string(WindowToday)).Set(float64(stats.Today))
	g.records.WithLabelValues(string(WindowWeek)).Set(float64(stats.Week))
}
