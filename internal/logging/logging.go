package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options はロガーの出力先と詳細度を指定します。
type Options struct {
	// Debug が true ならデバッグレベルまで出力し、コンソールは色付きの人間向け形式になります。
	Debug bool
	// FilePath が空でなければ JSON 形式のログをローテーション付きで書き出します。
	FilePath string
	// Console は標準のコンソール出力先です。nil なら os.Stderr。
	Console io.Writer
}

// ローテーション設定（100MB、5世代、30日、圧縮）
const (
	maxSizeMB  = 100
	maxBackups = 5
	maxAgeDays = 30
)

// New は zap をバックエンドにした slog.Logger と、終了時に呼ぶ close 関数を返します。
func New(opts Options) (*slog.Logger, func() error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleEncoder zapcore.Encoder
	if opts.Debug {
		consoleEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig())
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level),
	}

	var rotator *lumberjack.Logger
	if opts.FilePath != "" {
		rotator = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), level))
	}

	core := newRedactCore(zapcore.NewTee(cores...))
	logger := slog.New(zapslog.NewHandler(core, zapslog.WithCaller(opts.Debug)))

	closeFn := func() error {
		_ = core.Sync()
		if rotator != nil {
			return rotator.Close()
		}
		return nil
	}
	return logger, closeFn
}

// Setup は New で作ったロガーを slog のデフォルトに設定します。
func Setup(opts Options) func() error {
	logger, closeFn := New(opts)
	slog.SetDefault(logger)
	return closeFn
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	return cfg
}
