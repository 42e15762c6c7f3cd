package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New は環境に応じた zap ロガーを生成します。production では JSON、
// それ以外では開発向けの読みやすい形式で出力します。
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return l, nil
}
