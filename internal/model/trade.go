package model

import "time"

// TradeAction は売買区分を表す。
type TradeAction string

const (
	// TradeActionBuy は買い注文。
	TradeActionBuy TradeAction = "BUY"
	// TradeActionSell は売り注文。
	TradeActionSell TradeAction = "SELL"
)

// TradeStatus は約定状態を表す。
type TradeStatus string

const (
	// TradeStatusPending は約定待ち状態。
	TradeStatusPending TradeStatus = "PENDING"
	// TradeStatusExecuted は約定済み状態。記録時のデフォルト。
	TradeStatusExecuted TradeStatus = "EXECUTED"
	// TradeStatusFailed は約定失敗状態。
	TradeStatusFailed TradeStatus = "FAILED"
)

// Trade は約定履歴の1件を表す。
type Trade struct {
	ID         string      `bson:"id" json:"id"`
	UserID     string      `bson:"user_id" json:"user_id"`
	BotID      string      `bson:"bot_id" json:"bot_id"`
	Symbol     string      `bson:"symbol" json:"symbol"`
	Action     TradeAction `bson:"action" json:"action"`
	Quantity   int         `bson:"quantity" json:"quantity"`
	Price      float64     `bson:"price" json:"price"`
	ExecutedAt time.Time   `bson:"executed_at" json:"executed_at"`
	Status     TradeStatus `bson:"status" json:"status"`
}
