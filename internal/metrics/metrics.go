// Package metrics holds the application counters exposed on /metrics next to the
// HTTP metrics collected by go-gin-prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SurveysCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "opinai",
		Name:      "surveys_completed_total",
		Help:      "Survey completions that credited points.",
	})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "opinai",
		Name:      "points_awarded_total",
		Help:      "Sum of points credited to users.",
	})

	RewardRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "opinai",
		Name:      "reward_rejections_total",
		Help:      "Completions rejected because the reward value could not be parsed.",
	})
)
