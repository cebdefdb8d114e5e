package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ckhuang/wordlebot/internal/config"
	"github.com/ckhuang/wordlebot/internal/daily"
	"github.com/ckhuang/wordlebot/internal/httpserver"
	"github.com/ckhuang/wordlebot/internal/kv"
	"github.com/ckhuang/wordlebot/internal/metrics"
	"github.com/ckhuang/wordlebot/internal/prefs"
	"github.com/ckhuang/wordlebot/internal/session"
	"github.com/ckhuang/wordlebot/internal/wordle"
	"github.com/ckhuang/wordlebot/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	list, err := words.Load(cfg.AnswersFile, cfg.AllowedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	if a, _ := list.Counts(); a == 0 {
		// Gameplay will report answer-unavailable until lists are fixed.
		log.Error().Msg("answer pool is empty, check WORDS_ANSWERS_FILE")
	}

	var store kv.Store
	if cfg.RedisAddr != "" {
		client, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		defer client.Close()
		store = kv.NewRedisStore(client)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory game state")
		store = kv.NewMemoryStore()
	}

	prefStore, err := prefs.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("failed to open preference store")
	}
	defer prefStore.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	sched := daily.New(store, list)
	go sched.Run(ctx)

	svc := wordle.New(list, sched, session.NewStore(store), prefStore, collector)
	srv := httpserver.New(svc, list, httpserver.Options{
		ClientOrigin:    cfg.ClientOrigin,
		RequestTimeout:  cfg.RequestTimeout,
		RateLimitPerMin: cfg.RateLimitPerMin,
		RateLimitBurst:  cfg.RateLimitBurst,
		SecureCookies:   cfg.SecureCookies,
		Gatherer:        reg,
	})

	log.Info().Str("port", cfg.Port).Msg("starting wordlebot")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
