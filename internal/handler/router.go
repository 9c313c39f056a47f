package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver middleware.UserResolver
	RateLimiter     *middleware.RateLimiter
	Metrics         metrics.MetricsCollector
	Gatherer        prometheus.Gatherer
	Logger          *slog.Logger
	CORSOrigins     []string
	LoginRateLimit  int // POST /api/auth/session の毎分リクエスト上限（IP単位）
	GlobalRateLimit int // 全ルート共通の毎分リクエスト上限（IP単位）

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 取引ボット
	BotService BotServiceInterface

	// 市場データ
	MarketService MarketServiceInterface

	// ポートフォリオ
	PortfolioService PortfolioServiceInterface

	// 約定履歴
	TradeService TradeServiceInterface

	// 分析
	AnalyticsService AnalyticsServiceInterface

	// ユーザー管理
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS → RateLimit(IP)
//
// 市場データと認証ルートはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	r.Use(httprate.LimitByIP(deps.GlobalRateLimit, time.Minute))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	botHandler := NewBotHandler(deps.BotService)
	marketHandler := NewMarketHandler(deps.MarketService)
	portfolioHandler := NewPortfolioHandler(deps.PortfolioService)
	tradeHandler := NewTradeHandler(deps.TradeService)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	r.Get("/api/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// 市場データは公開
	r.Route("/api/market/stocks", func(r chi.Router) {
		r.Get("/", marketHandler.ListStocks)
		r.Get("/{symbol}", marketHandler.GetStock)
	})

	// 認証ルート（セッション確立はIP単位の厳格なレート制限を追加）
	r.Route("/api/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(deps.LoginRateLimit, time.Minute)).Post("/session", authHandler.CreateSession)
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 取引ボット管理（作成・稼働切替は取引系レート制限を追加）
		r.Route("/api/bots", func(r chi.Router) {
			r.Get("/", botHandler.ListBots)
			r.With(deps.RateLimiter.TradingMiddleware()).Post("/", botHandler.CreateBot)
			r.With(deps.RateLimiter.TradingMiddleware()).Put("/{botID}/toggle", botHandler.ToggleBot)
		})

		// 資産・履歴・分析
		r.Get("/api/portfolio", portfolioHandler.GetPortfolio)
		r.Get("/api/trades", tradeHandler.ListTrades)
		r.Get("/api/analytics/overview", analyticsHandler.Overview)

		// 管理者限定
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.NewRequireRoleMiddleware(model.RoleAdmin))
			r.Get("/users", userHandler.ListUsers)
			r.Put("/users/{userID}/role", userHandler.UpdateUserRole)
		})
	})

	return r
}

// handleHealth は死活監視エンドポイント。
// GET /api/health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
