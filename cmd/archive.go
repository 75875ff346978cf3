package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/store"
)

const (
	backendMemory = "memory"
	backendStore  = "store"
	backendRedis  = "redis"
)

func addHistoryFlags(f *pflag.FlagSet, def string) {
	f.String("history", def, "History backend (memory, store, redis)")
	f.String("redis-addr", "localhost:6379", "Redis address for the redis history backend")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("redis-key", history.DefaultRedisKey, "Redis list key holding history records")
}

// openArchive returns the configured history archive and a cleanup func.
// st is required only for the store backend.
func openArchive(ctx context.Context, v *viper.Viper, st *store.Store) (history.Archive, func(), error) {
	switch backend := v.GetString("history"); backend {
	case backendMemory:
		return history.NewMemoryArchive(), func() {}, nil
	case backendStore:
		if st == nil {
			return nil, nil, fmt.Errorf("history backend %q needs a database", backend)
		}
		return history.NewStoreArchive(st.HistoryRepo()), func() {}, nil
	case backendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     v.GetString("redis-addr"),
			Password: v.GetString("redis-password"),
			DB:       v.GetInt("redis-db"),
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", v.GetString("redis-addr"), err)
		}
		return history.NewRedisArchive(client, v.GetString("redis-key")), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q: must be memory, store or redis", backend)
	}
}
