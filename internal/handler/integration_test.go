package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harshpasiya/Zodic-bot/internal/analytics"
	"github.com/harshpasiya/Zodic-bot/internal/auth"
	"github.com/harshpasiya/Zodic-bot/internal/bot"
	"github.com/harshpasiya/Zodic-bot/internal/market"
	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/middleware"
	"github.com/harshpasiya/Zodic-bot/internal/model"
	"github.com/harshpasiya/Zodic-bot/internal/portfolio"
	"github.com/harshpasiya/Zodic-bot/internal/repository"
	"github.com/harshpasiya/Zodic-bot/internal/security"
	"github.com/harshpasiya/Zodic-bot/internal/trade"
	"github.com/harshpasiya/Zodic-bot/internal/user"
)

// --- 統合テスト用のインメモリリポジトリ ---

// memState は統合テスト用の共有ストアを保持する。
// モックサービスではなく実サービス層を通すため、repositoryインター
// フェースを満たすインメモリ実装とともに使う。
type memState struct {
	mu         sync.Mutex
	users      map[string]*model.User
	sessions   map[string]*model.Session // セッショントークン -> セッション
	bots       map[string]*model.TradingBot
	trades     map[string]*model.Trade
	portfolios map[string]*model.Portfolio
}

func newMemState() *memState {
	return &memState{
		users:      make(map[string]*model.User),
		sessions:   make(map[string]*model.Session),
		bots:       make(map[string]*model.TradingBot),
		trades:     make(map[string]*model.Trade),
		portfolios: make(map[string]*model.Portfolio),
	}
}

type memUserRepo struct{ s *memState }

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[id], nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = u
	return nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.Role = role
	return true, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type memSessionRepo struct{ s *memState }

func (r *memSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.SessionToken] = session
	return nil
}

func (r *memSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sessions[token], nil
}

func (r *memSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for token, session := range r.s.sessions {
		if session.Expired(now) {
			delete(r.s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

type memBotRepo struct{ s *memState }

func (r *memBotRepo) ListByUserID(ctx context.Context, userID string) ([]*model.TradingBot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var bots []*model.TradingBot
	for _, b := range r.s.bots {
		if b.UserID == userID {
			bots = append(bots, b)
		}
	}
	sort.Slice(bots, func(i, j int) bool { return bots[i].ID < bots[j].ID })
	return bots, nil
}

func (r *memBotRepo) Create(ctx context.Context, b *model.TradingBot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bots[b.ID] = b
	return nil
}

func (r *memBotRepo) FindByIDAndUserID(ctx context.Context, id, userID string) (*model.TradingBot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bots[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return b, nil
}

func (r *memBotRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bots[id]; ok {
		b.IsActive = active
	}
	return nil
}

func (r *memBotRepo) CountActive(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bots {
		if b.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *memBotRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bots {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memBotRepo) CountActiveByUserID(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bots {
		if b.UserID == userID && b.IsActive {
			n++
		}
	}
	return n, nil
}

type memTradeRepo struct{ s *memState }

func (r *memTradeRepo) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Trade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var trades []*model.Trade
	for _, tr := range r.s.trades {
		if tr.UserID == userID {
			trades = append(trades, tr)
		}
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ExecutedAt.After(trades[j].ExecutedAt) })
	if len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

func (r *memTradeRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.trades)), nil
}

func (r *memTradeRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, tr := range r.s.trades {
		if tr.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memPortfolioRepo struct{ s *memState }

func (r *memPortfolioRepo) FindByUserID(ctx context.Context, userID string) (*model.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.portfolios {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPortfolioRepo) Create(ctx context.Context, p *model.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.portfolios[p.ID] = p
	return nil
}

var (
	_ repository.UserRepository      = (*memUserRepo)(nil)
	_ repository.SessionRepository   = (*memSessionRepo)(nil)
	_ repository.BotRepository       = (*memBotRepo)(nil)
	_ repository.TradeRepository     = (*memTradeRepo)(nil)
	_ repository.PortfolioRepository = (*memPortfolioRepo)(nil)
)

// --- 統合テスト用ルーター構築ヘルパー ---

// integrationEnv は実サービス構成のルーターとインメモリストアを束ねる。
type integrationEnv struct {
	state  *memState
	router http.Handler
}

// newIntegrationEnv は認証交換サーバーのスタブと実サービス構成の
// ルーターを構築する。交換サーバーは常に同一プロフィールを返す。
func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-ID") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"email":"trader@example.com","name":"Integration Trader","picture":"https://example.com/avatar.png","session_token":"issued-token-1"}`)
	}))
	t.Cleanup(exchange.Close)

	state := newMemState()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sanitizer := security.NewTextSanitizer()

	userRepo := &memUserRepo{s: state}
	sessionRepo := &memSessionRepo{s: state}
	botRepo := &memBotRepo{s: state}
	tradeRepo := &memTradeRepo{s: state}
	portfolioRepo := &memPortfolioRepo{s: state}

	identity := auth.NewIdentityExchangeClient(exchange.Client(), logger, exchange.URL)
	authService := auth.NewService(identity, userRepo, sessionRepo, portfolioRepo, sanitizer, collector, auth.ServiceConfig{
		SessionTTL:          7 * 24 * time.Hour,
		StartingCashBalance: 10000,
	})

	deps := &RouterDeps{
		SessionResolver:  authService,
		RateLimiter:      middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
		Metrics:          collector,
		Gatherer:         registry,
		Logger:           logger,
		CORSOrigins:      []string{"http://localhost:3000"},
		LoginRateLimit:   100,
		GlobalRateLimit:  1000,
		AuthService:      authService,
		AuthConfig:       AuthHandlerConfig{SessionMaxAge: 604800},
		BotService:       bot.NewService(botRepo, sanitizer),
		MarketService:    market.NewService(),
		PortfolioService: portfolio.NewService(portfolioRepo, portfolio.ServiceConfig{StartingCashBalance: 10000}),
		TradeService:     trade.NewService(tradeRepo),
		AnalyticsService: analytics.NewService(userRepo, botRepo, tradeRepo, portfolioRepo),
		UserService:      user.NewService(userRepo),
	}

	return &integrationEnv{
		state:  state,
		router: NewRouter(deps),
	}
}

// seedSession はユーザーと有効なセッションをストアに直接投入する。
func (env *integrationEnv) seedSession(u *model.User, token string) {
	env.state.mu.Lock()
	defer env.state.mu.Unlock()
	env.state.users[u.ID] = u
	env.state.sessions[token] = &model.Session{
		ID:           "session-" + token,
		UserID:       u.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(time.Hour),
		CreatedAt:    time.Now(),
	}
}

func (env *integrationEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// --- エンドツーエンド統合テスト ---

// TestIntegration_LoginMeLogoutFlow はログインフロー全体を検証する。
// セッション作成 → ユーザー・ポートフォリオ・セッション永続化 → /api/auth/me で認証確認
// → ログアウト → セッション破棄
func TestIntegration_LoginMeLogoutFlow(t *testing.T) {
	env := newIntegrationEnv(t)

	// 1. ログイン: ユーザーが作成されCookieが発行されること
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.Header.Set("X-Session-ID", "exchange-session-1")
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step1: POST /api/auth/session status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	sessionCookie := findCookie(w.Result(), "session_token")
	if sessionCookie == nil {
		t.Fatal("step1: expected session_token cookie")
	}
	if sessionCookie.Value != "issued-token-1" {
		t.Errorf("step1: cookie value = %q, want %q", sessionCookie.Value, "issued-token-1")
	}

	env.state.mu.Lock()
	if len(env.state.users) != 1 {
		t.Errorf("step1: len(users) = %d, want 1", len(env.state.users))
	}
	if len(env.state.portfolios) != 1 {
		t.Errorf("step1: len(portfolios) = %d, want 1", len(env.state.portfolios))
	}
	for _, p := range env.state.portfolios {
		if p.CashBalance != 10000 {
			t.Errorf("step1: portfolio cash_balance = %v, want 10000", p.CashBalance)
		}
	}
	if len(env.state.sessions) != 1 {
		t.Errorf("step1: len(sessions) = %d, want 1", len(env.state.sessions))
	}
	env.state.mu.Unlock()

	// 2. /api/auth/me: 発行されたCookieでユーザー情報が取得できること
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step2: GET /api/auth/me status = %d, want %d", w.Code, http.StatusOK)
	}
	var me model.User
	if err := json.NewDecoder(w.Body).Decode(&me); err != nil {
		t.Fatalf("step2: failed to decode response: %v", err)
	}
	if me.Email != "trader@example.com" {
		t.Errorf("step2: email = %q, want %q", me.Email, "trader@example.com")
	}
	if me.Role != model.RoleClient {
		t.Errorf("step2: role = %q, want %q", me.Role, model.RoleClient)
	}

	// 3. ログアウト: セッションが破棄されること
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step3: POST /api/auth/logout status = %d, want %d", w.Code, http.StatusOK)
	}

	// 4. ログアウト後は同じトークンで認証が通らないこと
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("step4: GET /api/auth/me after logout status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestIntegration_RepeatLogin_ReusesUser は同一メールアドレスでの再ログインが
// 新規ユーザーを作らないことを検証する。
func TestIntegration_RepeatLogin_ReusesUser(t *testing.T) {
	env := newIntegrationEnv(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
		req.Header.Set("X-Session-ID", "exchange-session-1")
		if w := env.do(req); w.Code != http.StatusOK {
			t.Fatalf("login %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	env.state.mu.Lock()
	defer env.state.mu.Unlock()
	if len(env.state.users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(env.state.users))
	}
	if len(env.state.portfolios) != 1 {
		t.Errorf("len(portfolios) = %d, want 1", len(env.state.portfolios))
	}
}

// TestIntegration_ExpiredSession_RejectedAndReaped は期限切れセッションが
// 拒否され、解決時にストアから削除されることを検証する。
func TestIntegration_ExpiredSession_RejectedAndReaped(t *testing.T) {
	env := newIntegrationEnv(t)
	env.state.mu.Lock()
	env.state.users["user-1"] = &model.User{ID: "user-1", Email: "c@example.com", Role: model.RoleClient}
	env.state.sessions["stale-token"] = &model.Session{
		ID:           "session-stale",
		UserID:       "user-1",
		SessionToken: "stale-token",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	env.state.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "stale-token"})
	w := env.do(req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/bots status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	env.state.mu.Lock()
	defer env.state.mu.Unlock()
	if _, ok := env.state.sessions["stale-token"]; ok {
		t.Error("expired session should be deleted on resolve")
	}
}

// TestIntegration_BotLifecycle はボット管理フロー全体を検証する。
// 作成 → 一覧 → 稼働切替 → 分析への反映
func TestIntegration_BotLifecycle(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedSession(&model.User{ID: "user-1", Email: "c@example.com", Role: model.RoleClient}, "tok-1")
	sessionCookie := &http.Cookie{Name: "session_token", Value: "tok-1"}

	// 1. 作成（POST /api/bots）
	body := `{"name": "Momentum Bot", "strategy": "momentum", "capital": 50000}`
	req := httptest.NewRequest(http.MethodPost, "/api/bots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	w := env.do(req)

	if w.Code != http.StatusCreated {
		t.Fatalf("step1: POST /api/bots status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var created model.TradingBot
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("step1: failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("step1: expected non-empty bot id")
	}
	if created.IsActive {
		t.Error("step1: created bot should start inactive")
	}
	if created.RiskPercentage != model.DefaultRiskPercentage {
		t.Errorf("step1: risk_percentage = %v, want %v", created.RiskPercentage, model.DefaultRiskPercentage)
	}

	// 2. 一覧（GET /api/bots）
	req = httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step2: GET /api/bots status = %d, want %d", w.Code, http.StatusOK)
	}
	var bots []*model.TradingBot
	if err := json.NewDecoder(w.Body).Decode(&bots); err != nil {
		t.Fatalf("step2: failed to decode response: %v", err)
	}
	if len(bots) != 1 {
		t.Fatalf("step2: len(bots) = %d, want 1", len(bots))
	}

	// 3. 稼働切替（PUT /api/bots/{botID}/toggle）
	req = httptest.NewRequest(http.MethodPut, "/api/bots/"+created.ID+"/toggle", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step3: PUT /api/bots/%s/toggle status = %d, want %d", created.ID, w.Code, http.StatusOK)
	}
	var toggleBody map[string]string
	if err := json.NewDecoder(w.Body).Decode(&toggleBody); err != nil {
		t.Fatalf("step3: failed to decode response: %v", err)
	}
	if toggleBody["message"] != "Bot activated successfully" {
		t.Errorf("step3: message = %q, want %q", toggleBody["message"], "Bot activated successfully")
	}

	// 4. 分析に反映されること（GET /api/analytics/overview）
	req = httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
	req.AddCookie(sessionCookie)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step4: GET /api/analytics/overview status = %d, want %d", w.Code, http.StatusOK)
	}
	var overview analytics.ClientOverview
	if err := json.NewDecoder(w.Body).Decode(&overview); err != nil {
		t.Fatalf("step4: failed to decode response: %v", err)
	}
	if overview.TotalBots != 1 || overview.ActiveBots != 1 {
		t.Errorf("step4: overview = %+v, want total_bots=1 active_bots=1", overview)
	}
}

// TestIntegration_Portfolio_AutoCreatedOnFirstAccess はポートフォリオが
// 初回アクセス時に初期残高付きで自動生成されることを検証する。
func TestIntegration_Portfolio_AutoCreatedOnFirstAccess(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedSession(&model.User{ID: "user-1", Email: "c@example.com", Role: model.RoleClient}, "tok-1")

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-1"})
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/portfolio status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var p model.Portfolio
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if p.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", p.UserID, "user-1")
	}
	if p.CashBalance != 10000 {
		t.Errorf("cash_balance = %v, want 10000", p.CashBalance)
	}

	// ストアにも永続化されていること
	env.state.mu.Lock()
	defer env.state.mu.Unlock()
	if len(env.state.portfolios) != 1 {
		t.Errorf("len(portfolios) = %d, want 1", len(env.state.portfolios))
	}
}

// TestIntegration_TradeHistory_ScopedToOwner は約定履歴が本人の分だけ
// 返ることを検証する。
func TestIntegration_TradeHistory_ScopedToOwner(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedSession(&model.User{ID: "user-1", Email: "c@example.com", Role: model.RoleClient}, "tok-1")
	env.state.mu.Lock()
	env.state.trades["trade-1"] = &model.Trade{
		ID:         "trade-1",
		UserID:     "user-1",
		Symbol:     "RELIANCE",
		Action:     model.TradeActionBuy,
		ExecutedAt: time.Now().UTC(),
	}
	env.state.trades["trade-2"] = &model.Trade{
		ID:         "trade-2",
		UserID:     "someone-else",
		Symbol:     "TCS",
		Action:     model.TradeActionSell,
		ExecutedAt: time.Now().UTC(),
	}
	env.state.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-1"})
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/trades status = %d, want %d", w.Code, http.StatusOK)
	}
	var trades []*model.Trade
	if err := json.NewDecoder(w.Body).Decode(&trades); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("len(trades) = %d, want 1", len(trades))
	}
	if trades[0].ID != "trade-1" {
		t.Errorf("trades[0].id = %q, want %q", trades[0].ID, "trade-1")
	}
}

// TestIntegration_AdminFlow はユーザー管理フロー全体を検証する。
// 一覧取得 → ロール変更のストアへの反映 → 一般ユーザーの拒否
func TestIntegration_AdminFlow(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedSession(&model.User{ID: "admin-1", Email: "a@example.com", Role: model.RoleAdmin}, "admin-tok")
	env.seedSession(&model.User{ID: "user-2", Email: "c@example.com", Role: model.RoleClient}, "client-tok")
	adminSession := &http.Cookie{Name: "session_token", Value: "admin-tok"}

	// 1. 一覧（GET /api/admin/users）
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(adminSession)
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step1: GET /api/admin/users status = %d, want %d", w.Code, http.StatusOK)
	}
	var users []*model.User
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("step1: failed to decode response: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("step1: len(users) = %d, want 2", len(users))
	}

	// 2. ロール変更（PUT /api/admin/users/{userID}/role）
	req = httptest.NewRequest(http.MethodPut, "/api/admin/users/user-2/role", strings.NewReader(`{"role": "admin"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(adminSession)
	w = env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("step2: PUT role status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	env.state.mu.Lock()
	if got := env.state.users["user-2"].Role; got != model.RoleAdmin {
		t.Errorf("step2: user-2 role = %q, want %q", got, model.RoleAdmin)
	}
	env.state.mu.Unlock()

	// 3. 一般ユーザーは管理者ルートに届かないこと
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "client-tok"})
	w = env.do(req)

	if w.Code != http.StatusForbidden {
		t.Errorf("step3: client GET /api/admin/users status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

// TestIntegration_ProtectedEndpoints_RequireAuth は全保護エンドポイントが
// 認証を要求することを検証する。
func TestIntegration_ProtectedEndpoints_RequireAuth(t *testing.T) {
	env := newIntegrationEnv(t)

	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/bots", ""},
		{http.MethodPost, "/api/bots", `{"name": "Bot", "strategy": "momentum", "capital": 1000}`},
		{http.MethodPut, "/api/bots/bot-1/toggle", ""},
		{http.MethodGet, "/api/portfolio", ""},
		{http.MethodGet, "/api/trades", ""},
		{http.MethodGet, "/api/analytics/overview", ""},
		{http.MethodGet, "/api/admin/users", ""},
		{http.MethodPut, "/api/admin/users/user-1/role", `{"role": "admin"}`},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, strings.NewReader(ep.body))
			req.Header.Set("Content-Type", "application/json")
			w := env.do(req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s (no auth) status = %d, want %d", ep.method, ep.path, w.Code, http.StatusUnauthorized)
			}
		})
	}
}
