package main

import (
	"context"
	"os"
	"time"

	"ludo/internal/config"
	"ludo/internal/database"
	"ludo/internal/game"
	"ludo/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	store, err := database.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer store.Close()

	manager := game.NewManager(store)
	manager.LoadRooms()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.RunDeadlines(ctx)

	handler := server.NewHandler(manager, store)
	router := server.NewRouter(handler, []string{cfg.FrontendOrigin})

	log.Info().Str("addr", cfg.Addr).Msg("ludo server listening")
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
