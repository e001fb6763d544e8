// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は予約フォームの自由記述欄からHTMLを取り除き、
// プレーンテキストとして保存できる形にする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize は全てのタグを除去したテキストを返す。
	// script, styleは中身ごと除去する。文字参照は元の文字に戻し、前後の空白を削る。
	// 文字参照で表現されたタグも除去し、出力を再度渡しても結果は変わらない。
	Sanitize(raw string) string
}

// maxSanitizePasses は文字参照の多重エンコードを展開する上限回数。
// 上限までに結果が収束しない入力は空文字列として扱う。
const maxSanitizePasses = 8

// textSanitizer はbluemondayのStrictPolicyでタグを除去する。
// Policyはスレッドセーフに利用できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	// 除去と文字参照の復元を、値が変化しなくなるまで繰り返す
	current := raw
	for range maxSanitizePasses {
		next := html.UnescapeString(s.policy.Sanitize(current))
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	return ""
}
