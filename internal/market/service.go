// Package market はNSE銘柄の市場データを提供する。
// 現時点では固定スナップショットを返す。実データフィードへの接続は将来の課題。
package market

import (
	"strings"

	"github.com/harshpasiya/Zodic-bot/internal/model"
)

// nseQuotes は提供対象のNSE銘柄と現在のスナップショット値。
var nseQuotes = map[string]model.Quote{
	"RELIANCE":   {Price: 2456.75, Change: 12.30, Volume: 1250000},
	"TCS":        {Price: 3890.20, Change: -15.80, Volume: 890000},
	"INFY":       {Price: 1678.45, Change: 25.60, Volume: 1100000},
	"HDFCBANK":   {Price: 1545.30, Change: 8.70, Volume: 2100000},
	"ICICIBANK":  {Price: 987.65, Change: -3.25, Volume: 1850000},
	"WIPRO":      {Price: 432.15, Change: 7.80, Volume: 650000},
	"BHARTIARTL": {Price: 825.40, Change: -2.10, Volume: 980000},
	"ITC":        {Price: 456.20, Change: 4.50, Volume: 1650000},
}

// Service は市場データへの読み取りアクセスを提供する。
type Service struct {
	quotes map[string]model.Quote
}

// NewService は新しい市場データサービスを生成する。
func NewService() *Service {
	return &Service{quotes: nseQuotes}
}

// Quotes は全銘柄のスナップショットを返す。
// 呼び出し側の変更から内部状態を守るためコピーを返す。
func (s *Service) Quotes() map[string]model.Quote {
	quotes := make(map[string]model.Quote, len(s.quotes))
	for symbol, quote := range s.quotes {
		quotes[symbol] = quote
	}
	return quotes
}

// Quote は指定銘柄のスナップショットを返す。
// シンボルは大文字小文字を区別せず、正規化済みシンボルを合わせて返す。
// 未知の銘柄にはSymbolNotFoundエラーを返す。
func (s *Service) Quote(symbol string) (string, model.Quote, error) {
	canonical := strings.ToUpper(symbol)

	quote, ok := s.quotes[canonical]
	if !ok {
		return "", model.Quote{}, model.NewSymbolNotFoundError(canonical)
	}

	return canonical, quote, nil
}
