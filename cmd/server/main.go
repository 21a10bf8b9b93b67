package main

import (
	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/config"
	"github.com/gowtham-garimella/pixora/internal/logger"
	"github.com/gowtham-garimella/pixora/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := http.Run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
