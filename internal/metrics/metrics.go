// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・ミドルウェア・ワーカーから利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginRejected()
	RecordLoginFailure()
	RecordExchangeLatency(duration time.Duration)
	RecordSessionsReaped(count int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess    prometheus.Counter
	loginRejected   prometheus.Counter
	loginFail       prometheus.Counter
	exchangeLatency prometheus.Histogram
	sessionsReaped  prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zodic_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zodic_login_rejected_total",
			Help: "セッションID検証で拒否されたログインの合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zodic_login_fail_total",
			Help: "基盤エラーで失敗したログインの合計数",
		}),
		exchangeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zodic_exchange_latency_seconds",
			Help:    "認証交換サービス呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zodic_sessions_reaped_total",
			Help: "削除された期限切れセッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zodic_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginRejected,
		c.loginFail,
		c.exchangeLatency,
		c.sessionsReaped,
		c.httpStatus,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginRejected はセッションID検証による拒否を記録する。
func (c *Collector) RecordLoginRejected() {
	c.loginRejected.Inc()
}

// RecordLoginFailure は基盤エラーによるログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordExchangeLatency は認証交換サービス呼び出しのレイテンシを記録する。
func (c *Collector) RecordExchangeLatency(duration time.Duration) {
	c.exchangeLatency.Observe(duration.Seconds())
}

// RecordSessionsReaped は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsReaped(count int) {
	c.sessionsReaped.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
