package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harshpasiya/Zodic-bot/internal/analytics"
	"github.com/harshpasiya/Zodic-bot/internal/auth"
	"github.com/harshpasiya/Zodic-bot/internal/bot"
	"github.com/harshpasiya/Zodic-bot/internal/config"
	"github.com/harshpasiya/Zodic-bot/internal/database"
	"github.com/harshpasiya/Zodic-bot/internal/handler"
	"github.com/harshpasiya/Zodic-bot/internal/logger"
	"github.com/harshpasiya/Zodic-bot/internal/market"
	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/portfolio"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
	"github.com/harshpasiya/Zodic-bot/internal/security"
	"github.com/harshpasiya/Zodic-bot/internal/trade"
	"github.com/harshpasiya/Zodic-bot/internal/user"
	"github.com/harshpasiya/Zodic-bot/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8001"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("db_name", cfg.DBName),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// MongoDB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx := context.Background()

	// 1. DB接続
	client, err := database.Connect(ctx, cfg.MongoURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			slog.Error("failed to disconnect from mongodb", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewMongoUserRepo(db)
	sessionRepo := repository.NewMongoSessionRepo(db)
	botRepo := repository.NewMongoBotRepo(db)
	tradeRepo := repository.NewMongoTradeRepo(db)
	portfolioRepo := repository.NewMongoPortfolioRepo(db)

	// 3. メトリクスとセキュリティサービスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sanitizer := security.NewTextSanitizer()

	// 4. ドメインサービスの初期化
	identity := auth.NewIdentityExchangeClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		slog.Default(),
		cfg.IdentitySessionDataURL,
	)
	authService := auth.NewService(
		identity, userRepo, sessionRepo, portfolioRepo, sanitizer, collector,
		auth.ServiceConfig{
			SessionTTL:          cfg.SessionTTL,
			StartingCashBalance: cfg.StartingCashBalance,
		},
	)

	botService := bot.NewService(botRepo, sanitizer)
	marketService := market.NewService()
	portfolioService := portfolio.NewService(portfolioRepo, portfolio.ServiceConfig{
		StartingCashBalance: cfg.StartingCashBalance,
	})
	tradeService := trade.NewService(tradeRepo)
	analyticsService := analytics.NewService(userRepo, botRepo, tradeRepo, portfolioRepo)
	userService := user.NewService(userRepo)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.RateLimiterConfigForLimits(cfg.RateLimitGeneral, cfg.RateLimitTrading),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		SessionResolver: authService,
		RateLimiter:     rateLimiter,
		Metrics:         collector,
		Gatherer:        registry,
		Logger:          slog.Default(),
		CORSOrigins:     cfg.CORSOrigins,
		LoginRateLimit:  cfg.RateLimitLogin,
		GlobalRateLimit: cfg.RateLimitGlobal,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			SessionMaxAge: int(cfg.SessionTTL.Seconds()),
		},

		BotService:       botService,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		TradeService:     tradeService,
		AnalyticsService: analyticsService,
		UserService:      userService,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// MongoDB接続を開き、期限切れセッションの定期削除ジョブを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	connectCtx := context.Background()
	client, err := database.Connect(connectCtx, cfg.MongoURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			slog.Error("failed to disconnect from mongodb", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.DBName)
	// DeleteExpiredはexpires_atインデックスに依存するため、ワーカー側でも
	// 起動時に作成する。APIプロセスより先に起動しても動作する。
	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. セッションクリーンアップジョブの初期化
	sessionRepo := repository.NewMongoSessionRepo(db)
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sweeper := cleanup.NewSweepJob(sessionRepo, collector, slog.Default())

	// 3. メトリクス公開用HTTPサーバーの起動（/metricsのみ）
	metricsServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      metrics.SetupMetricsRoute(registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("worker metrics server starting",
			slog.String("addr", metricsServer.Addr),
		)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("sweep_interval", cfg.SessionSweepInterval),
	)

	// クリーンアップジョブをメインgoroutineで実行（ブロッキング）
	sweeper.Start(ctx, cfg.SessionSweepInterval)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.String("error", err.Error()))
	}

	slog.Info("worker stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /api/health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/api/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
