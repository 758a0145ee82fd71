package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/api"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/feed"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/market"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/sink"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/source"
	"github.com/hyperstack-labs/hyperpulse/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Quote source chain: fallback(cache(script)). Every layer degrades
	// transparently, so /api/tokens always answers.
	var rdb *redis.Client
	var quoteSource market.QuoteSource
	if cfg.Source.Command != "" {
		var inner source.QuoteSource = source.NewScript(
			cfg.Source.Command,
			cfg.Source.Args,
			time.Duration(cfg.Source.TimeoutMs)*time.Millisecond,
			logger,
		)
		if cfg.Redis.Addr != "" {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				logger.Warn("Redis unreachable, quote cache degraded", zap.Error(err))
			}
			inner = source.NewCache(rdb, inner, time.Duration(cfg.Source.CacheTTLMin)*time.Minute, logger)
		}
		quoteSource = source.WithFallback(inner, market.StaticQuotes(), logger)
		logger.Info("External quote source enabled", zap.String("command", cfg.Source.Command))
	} else {
		quoteSource = source.NewStatic(market.StaticQuotes())
	}

	rnd := market.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
	generator := market.NewGenerator(logger, quoteSource, rnd, market.RealClock{}, cfg.Market.OrderBookDepth)

	// Optional tick firehose into Kafka.
	var tickSink feed.EventSink = sink.NopSink{}
	var kafkaSink *sink.KafkaSink
	if cfg.Kafka.Enabled {
		ensurer := sink.NewTopicEnsurer(logger, &sink.RealDialer{Dialer: kafka.DefaultDialer}, sink.RealClock{})
		ensurer.Ensure(cfg.Kafka.Brokers, cfg.Kafka.Topic)

		kafkaSink = sink.NewKafka(sink.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), logger)
		tickSink = kafkaSink
		logger.Info("Tick sink enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	manager := feed.NewManager(
		generator,
		tickSink,
		logger,
		time.Duration(cfg.Feed.PushIntervalMs)*time.Millisecond,
		cfg.Feed.SendBuffer,
	)

	router := api.NewRouter(api.NewHandlers(generator, logger), manager, logger)
	srv := &http.Server{Addr: cfg.App.Port, Handler: router}

	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	manager.Shutdown()

	if kafkaSink != nil {
		// Flush the async writer buffer before exit.
		if err := kafkaSink.Close(); err != nil {
			logger.Error("Error closing Kafka writer", zap.Error(err))
		} else {
			logger.Info("Kafka writer closed cleanly")
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("Shutdown Complete")
}
