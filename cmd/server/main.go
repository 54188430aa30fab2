package main

import (
	"github.com/rs/zerolog/log"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/config"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/db"
	clog "github.com/anburocky3/mugamili-anonymous-messaging-app/internal/log"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/server"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/service"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/ws"
)

func main() {
	// main 负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env)

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	hub := ws.NewHub()
	roomSvc := service.NewRoomService(db.NewRoomStore(gdb))
	msgSvc := service.NewMessageService(db.NewMessageStore(gdb), hub)

	r := server.SetupRouter(cfg, roomSvc, msgSvc, hub)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
