package redis

import (
	"context"
	"net"
	"taskly/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Options resolves the connection options. CACHE_REDIS_PRIMARY_URL wins over the
// host/port/password/db fields when set.
func Options(config *config.Config) *goRedis.Options {
	primary := config.Cache.Redis.Primary

	if primary.URL != "" {
		opts, err := goRedis.ParseURL(primary.URL)
		if err == nil {
			return opts
		}

		log.Error().Err(err).Msg("Invalid Redis URL, falling back to host and port")
	}

	return &goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	}
}

// New opens the process-wide Redis client. The returned cleanup closes it and is
// invoked on shutdown.
func New(config *config.Config) (*goRedis.Client, func()) {
	ctx := context.Background()
	opts := Options(config)
	client := goRedis.NewClient(opts)

	_, err := client.Ping(ctx).Result()
	if err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", opts.DB).
		Str("addr", opts.Addr).
		Msg("Connected to Redis")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")

			return
		}

		log.Info().Msg("Redis connection closed")
	}

	return client, cleanup
}
