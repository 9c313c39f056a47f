package model

import "time"

// Position はポートフォリオ内の個別銘柄の保有状況を表す。
type Position struct {
	Symbol       string  `bson:"symbol" json:"symbol"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	AveragePrice float64 `bson:"average_price" json:"average_price"`
	CurrentPrice float64 `bson:"current_price" json:"current_price"`
}

// Portfolio はユーザーの資産状況を表す。
// 初回アクセス時またはユーザー作成時に初期残高付きで自動生成される。
type Portfolio struct {
	ID          string     `bson:"id" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	TotalValue  float64    `bson:"total_value" json:"total_value"`
	CashBalance float64    `bson:"cash_balance" json:"cash_balance"`
	Positions   []Position `bson:"positions" json:"positions"`
	DailyPnl    float64    `bson:"daily_pnl" json:"daily_pnl"`
	TotalPnl    float64    `bson:"total_pnl" json:"total_pnl"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
