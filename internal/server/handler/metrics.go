package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genre_battle_rooms_created_total",
		Help: "创建成功的房间总数",
	})
	claimsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genre_battle_claims_granted_total",
		Help: "抢选成功总数",
	})
	claimsDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genre_battle_claims_denied_total",
		Help: "抢选被拒绝总数",
	})
	roundsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genre_battle_rounds_evaluated_total",
		Help: "结算完成的轮次总数",
	})
)
