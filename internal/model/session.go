package model

import "time"

// Session はログインセッションを表す。
// SessionTokenは外部の認証交換サービスが発行した値をそのまま保持する。
// トークンはログや監視に出力してはならない。
type Session struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	SessionToken string    `bson:"session_token" json:"-"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Expired はセッションがnow時点で失効しているかどうかを返す。
// 境界値（ExpiresAt == now）は失効扱いとする。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
