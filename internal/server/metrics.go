package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 服务器指标，通过 /metrics 暴露
var (
	roomsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genre_battle_rooms_cleaned_total",
		Help: "空置超时被清理的房间数",
	})
)
