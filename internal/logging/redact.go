package logging

import (
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RedactedPlaceholder は伏せ字にした値の代わりに出力される文字列です。
const RedactedPlaceholder = "[REDACTED]"

// Google API キー（AIza で始まる39文字）
var apiKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)

// Redact は文字列中の API キーを伏せ字にします。
func Redact(s string) string {
	if s == "" {
		return s
	}
	return apiKeyPattern.ReplaceAllString(s, RedactedPlaceholder)
}

// redactCore はメッセージと文字列フィールドから API キーを取り除いてから下位の Core に渡します。
type redactCore struct {
	zapcore.Core
}

func newRedactCore(core zapcore.Core) zapcore.Core {
	return &redactCore{Core: core}
}

func (c *redactCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactCore{Core: c.Core.With(redactFields(fields))}
}

func (c *redactCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = Redact(ent.Message)
	return c.Core.Write(ent, redactFields(fields))
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			f.String = Redact(f.String)
		case zapcore.ErrorType:
			// genai のエラーはリクエスト URL を含むことがある
			if err, ok := f.Interface.(error); ok && err != nil {
				f = zap.String(f.Key, Redact(err.Error()))
			}
		}
		out[i] = f
	}
	return out
}
