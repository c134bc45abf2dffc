package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sanguo"

var (
	drawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draws_total",
		Help:      "Generals drawn, by star tier.",
	}, []string{"tier"})

	duplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draw_duplicates_total",
		Help:      "Draws converted into shards.",
	})

	battlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "battles_total",
		Help:      "Resolved battles, by result.",
	}, []string{"result"})

	leaderboardPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "leaderboard_players",
		Help:      "Players ranked by the last leaderboard refresh.",
	})
)

func ObserveDraw(tier int, duplicate bool) {
	drawsTotal.WithLabelValues(strconv.Itoa(tier)).Inc()
	if duplicate {
		duplicatesTotal.Inc()
	}
}

func ObserveBattle(win, escaped bool) {
	result := "loss"
	switch {
	case escaped:
		result = "escape"
	case win:
		result = "win"
	}
	battlesTotal.WithLabelValues(result).Inc()
}

func SetLeaderboardPlayers(n int) {
	leaderboardPlayers.Set(float64(n))
}
