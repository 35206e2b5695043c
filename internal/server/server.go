package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/genre-battle/internal/config"
	"github.com/palemoky/genre-battle/internal/content"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/scoring"
	"github.com/palemoky/genre-battle/internal/server/handler"
	"github.com/palemoky/genre-battle/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// Server WebSocket 服务器
type Server struct {
	config   *config.Config
	redis    *redis.Client
	store    *storage.RedisStore
	engine   *room.Engine
	registry *Registry
	handler  *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
	done       chan struct{}
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	// 曲库：优先配置文件，缺失时用内置曲库
	var provider content.Provider
	if catalog, err := content.LoadCatalog(cfg.Catalog.Path); err == nil {
		provider = catalog
	} else {
		log.Printf("📀 曲库文件不可用（%v），使用内置曲库", err)
		provider = content.DefaultCatalog()
	}

	// 评分服务：未配置 URL 时直接使用本地精确匹配
	var scorer scoring.Scorer
	if cfg.Scoring.URL != "" {
		scorer = scoring.NewHTTPScorer(cfg.Scoring.URL, cfg.Scoring.TimeoutDuration())
	} else {
		log.Printf("🎯 未配置评分服务，使用本地精确匹配评分")
		scorer = scoring.ExactScorer{}
	}

	s := &Server{
		config:   cfg,
		redis:    rdb,
		store:    storage.NewRedisStore(rdb),
		registry: NewRegistry(),
		clients:  make(map[string]*Client),
		done:     make(chan struct{}),
	}

	s.engine = room.NewEngine(s.store, provider, scorer, cfg.Game.SaveRetries)

	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:        s,
		Engine:        s.engine,
		AutoEvalDelay: cfg.Game.AutoEvalDelayDuration(),
	})

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// 启动空房间清理协程
	go s.cleanupLoop()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown() {
	close(s.done)

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}
	_ = s.redis.Close()
}
