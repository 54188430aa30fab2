package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 初始化全局 zerolog：dev 环境输出彩色控制台日志，其余环境输出 JSON。
func Init(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	switch env {
	case "dev":
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(cw).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	default:
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	}
}
