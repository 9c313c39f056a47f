package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harshpasiya/Zodic-bot/internal/metrics"
	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// TestMiddlewareChain_AuthenticatedRequest_PassesFullStack は
// recovery -> headers -> logging -> metrics -> session の順で組んだチェーンを
// 認証済みリクエストが通過することを検証する。
func TestMiddlewareChain_AuthenticatedRequest_PassesFullStack(t *testing.T) {
	resolver := &mockUserResolver{
		resolveFn: func(_ context.Context, token string) (*model.User, error) {
			if token == "chain-token" {
				return &model.User{ID: "user-chain-test", Role: model.RoleClient}, nil
			}
			return nil, nil
		},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	recoveryMW := NewRecoveryMiddleware()
	headersMW := NewSecurityHeadersMiddleware()
	loggingMW := NewLoggingMiddleware(logger)
	metricsMW := NewMetricsMiddleware(collector)
	sessionMW := NewSessionMiddleware(resolver)

	var capturedUserID string
	handler := recoveryMW(headersMW(loggingMW(metricsMW(sessionMW(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := UserFromContext(r.Context())
			capturedUserID = user.ID
			w.WriteHeader(http.StatusOK)
		}))))))

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "chain-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedUserID != "user-chain-test" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-chain-test")
	}

	// セキュリティヘッダーが付与されていること
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options header")
	}
	if resp.Header.Get("Cache-Control") != "no-store" {
		t.Error("expected Cache-Control: no-store header")
	}
}

// TestMiddlewareChain_PanicInHandler_Returns500JSON は
// ハンドラー内のpanicがチェーン先頭のrecoveryで捕捉され、
// 統一フォーマットの500が返ることを検証する。
func TestMiddlewareChain_PanicInHandler_Returns500JSON(t *testing.T) {
	recoveryMW := NewRecoveryMiddleware()
	headersMW := NewSecurityHeadersMiddleware()

	handler := recoveryMW(headersMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/market/stocks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
}

// TestMiddlewareChain_NoSession_Returns401 は
// セッションがない場合に401が返されることを検証する。
func TestMiddlewareChain_NoSession_Returns401(t *testing.T) {
	resolver := &mockUserResolver{}

	sessionMW := NewSessionMiddleware(resolver)

	handler := sessionMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/bots", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// セッション未認証で401が返ること
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// TestMetricsMiddleware_RecordsHTTPStatus はレスポンスのステータスコードが
// メトリクスに記録されることを検証する。
func TestMetricsMiddleware_RecordsHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	mw := NewMetricsMiddleware(collector)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/stocks/UNKNOWN", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() != "zodic_http_status_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status_code" && label.GetValue() == "404" {
					found = true
					if v := m.GetCounter().GetValue(); v != 1 {
						t.Errorf("counter value = %v, want 1", v)
					}
				}
			}
		}
	}

	if !found {
		t.Error("expected zodic_http_status_total with status_code=404")
	}
}
