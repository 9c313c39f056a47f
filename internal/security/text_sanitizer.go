// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は利用者や外部サービス由来の表示用文字列を
// サニタイズし、XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリの厳格ポリシーで、タグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は表示用文字列のサニタイズ機能のインターフェースを定義する。
// ボット名・戦略名の保存前、および認証交換サービスが返すプロフィール名の
// 取り込み時に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去し、前後の空白を取り除いて返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayの厳格ポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 表示用文字列にマークアップは不要なため、許可タグゼロの
// StrictPolicyを使用する。scriptタグやon*イベント属性を含む
// あらゆるHTML構造が除去される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを全て除去し、前後の空白を取り除いて返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
