// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// Role はユーザーの権限ロールを表す閉じた列挙型。
// 自由文字列のままロール判定を行うとタイポが権限昇格の穴になるため、
// 外部入力は必ずParseRoleを通して検証する。
type Role string

const (
	// RoleAdmin はプラットフォーム管理者を表す。
	RoleAdmin Role = "admin"
	// RoleClient は一般の取引ユーザーを表す。新規ユーザーのデフォルト。
	RoleClient Role = "client"
)

// ParseRole は文字列をRoleに変換する。未定義の値はエラーを返す。
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// IsValid はRoleが定義済みの値かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClient
}

// String はロールの文字列表現を返す。
func (r Role) String() string {
	return string(r)
}

// User はプラットフォーム利用ユーザーを表す。
// 初回のセッション交換成功時にメールアドレスをキーとして作成され、
// 以降はロール変更以外で更新されない。削除経路は提供しない。
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
}
