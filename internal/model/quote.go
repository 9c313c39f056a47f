package model

// Quote はモック市場データの1銘柄分の気配値を表す。
// 実データ連携は行わず、固定テーブルから配信される。
type Quote struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume int64   `json:"volume"`
}
