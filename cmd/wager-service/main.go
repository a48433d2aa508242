package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/sports-wager-engine/internal/shared/cache"
	"github.com/radieske/sports-wager-engine/internal/shared/config"
	"github.com/radieske/sports-wager-engine/internal/shared/db"
	"github.com/radieske/sports-wager-engine/internal/shared/kafka"
	"github.com/radieske/sports-wager-engine/internal/shared/logger"
	"github.com/radieske/sports-wager-engine/internal/shared/metrics"
	"github.com/radieske/sports-wager-engine/internal/wager-service/engine"
	"github.com/radieske/sports-wager-engine/internal/wager-service/exposure"
	whttp "github.com/radieske/sports-wager-engine/internal/wager-service/http"
	"github.com/radieske/sports-wager-engine/internal/wager-service/limits"
	"github.com/radieske/sports-wager-engine/internal/wager-service/odds"
	kpub "github.com/radieske/sports-wager-engine/internal/wager-service/producer"
	"github.com/radieske/sports-wager-engine/internal/wager-service/repo"
	"github.com/radieske/sports-wager-engine/internal/wager-service/rules"
	"github.com/radieske/sports-wager-engine/internal/wager-service/settle"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (cache de leitura de odds correntes)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writer (topic wager_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
	defer writer.Close()

	// Stores
	legs := repo.NewLegStore(pg, rdb, time.Duration(cfg.Policy.LegCacheTTLSeconds)*time.Second)
	users := repo.NewUserStore(pg)
	wagers := repo.NewWagerStore(pg)
	committer := settle.NewCommitter(pg)

	// Estágios do motor
	toggles := rules.DefaultToggles()
	for _, name := range cfg.Policy.DisabledRules {
		toggles[name] = false
	}
	eng := engine.New(
		log,
		legs,
		users,
		wagers,
		committer,
		kpub.NewKafkaPublisher(writer, cfg.TopicWagerPlaced),
		odds.NewVerifier(cfg.Policy.ParlayBonus),
		rules.NewMatrix(rules.DefaultTable(), toggles),
		limits.NewEvaluator(limits.GlobalPolicy{
			MaxLegs:       cfg.Policy.GlobalMaxLegs,
			MaxTotalPrice: cfg.Policy.GlobalMaxTotalPrice,
			SingleEnabled: cfg.Policy.SingleEnabled,
		}),
		exposure.NewGuard(cfg.Policy.MaxAnchorCount),
		metrics.NewEngine(),
	)

	// HTTP público
	api := whttp.NewServer(log, eng, wagers)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("wager-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
