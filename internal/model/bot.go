package model

import "time"

// TradingBot は自動売買ボットの設定レコードを表す。
// 本システムは約定エンジンを持たないため、Performanceは外部集計の
// 受け皿であり、ここから更新する経路はない。
type TradingBot struct {
	ID             string         `bson:"id" json:"id"`
	UserID         string         `bson:"user_id" json:"user_id"`
	Name           string         `bson:"name" json:"name"`
	Strategy       string         `bson:"strategy" json:"strategy"`
	Capital        float64        `bson:"capital" json:"capital"`
	RiskPercentage float64        `bson:"risk_percentage" json:"risk_percentage"`
	IsActive       bool           `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
	Performance    map[string]any `bson:"performance" json:"performance"`
}

// DefaultRiskPercentage はボット作成時にrisk_percentage未指定の場合の既定値。
const DefaultRiskPercentage = 2.0
