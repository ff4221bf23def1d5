package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Board metrics
	CardOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questboard_card_operations_total",
		Help: "Card store operations by kind and outcome",
	}, []string{"operation", "status"})

	MoveRollbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questboard_move_rollbacks_total",
		Help: "Optimistic moves reverted after a failed write",
	})

	MoveBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "questboard_move_batch_size",
		Help:    "Cards written per move",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50},
	})

	// Gamification metrics
	ExperienceGrantedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questboard_experience_granted_total",
		Help: "Experience points granted",
	})

	AchievementsUnlockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questboard_achievements_unlocked_total",
		Help: "Achievements unlocked by condition type",
	}, []string{"condition_type"})

	LevelUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questboard_level_ups_total",
		Help: "Level increases",
	})

	// Infrastructure metrics
	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questboard_grpc_requests_total",
		Help: "gRPC requests by method and code",
	}, []string{"method", "code"})

	GRPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "questboard_grpc_latency_seconds",
		Help:    "gRPC request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questboard_notifications_total",
		Help: "Notifications delivered by channel and outcome",
	}, []string{"channel", "status"})
)
