package app

import (
	"database/sql"
	"os"
	"time"

	"sanguo/internal/config"
	"sanguo/internal/engine"
	"sanguo/internal/interfaces"
	"sanguo/internal/pkg/caching"
	"sanguo/internal/pkg/limiter"
	"sanguo/internal/pkg/locker"
	"sanguo/internal/services"

	"github.com/cockroachdb/errors"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Envs lists the optional settings read on top of the required ones.
var Envs = []string{
	"DB_DRIVER",
	"DB_PASSWORD",
	"DB_DSN_READONLY",
	"DB_PASSWORD_READONLY",
	"REDIS_DB",
	"CLUSTER_REDIS_DB",
	"REDIS_CACHE",
	"CLUSTER_REDIS_CACHE",
	"REDIS_CACHE_READONLY",
	"REDIS_LIMITER",
	"CLUSTER_REDIS_LIMITER",
	"REDIS_MUTEX",
	"CLUSTER_REDIS_MUTEX",
	"RULES_FILE",
	"API_MODE",
	"API_ORIGINS",
}

// NewContainer wires infrastructure and services. Redis backed pieces fall
// back to in-process ones when their url is not set, so a single node can run
// on sqlite alone.
func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	for _, key := range Envs {
		if _, ok := vs[key]; !ok {
			vs[key] = os.Getenv(key)
		}
	}
	if vs["DB_DRIVER"] == "" {
		vs["DB_DRIVER"] = DriverPostgres
	}
	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		if vs["API_MODE"] == "debug" {
			return zap.NewDevelopment()
		}
		return zap.NewProduction()
	})

	do.Provide(injector, func(i *do.Injector) (engine.Rules, error) {
		return config.LoadRules(vs["RULES_FILE"])
	})

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return OpenDB(vs["DB_DRIVER"], vs["DB_DSN"], vs["DB_PASSWORD"])
	})

	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		if vs["DB_DRIVER"] == DriverSqlite || vs["DB_DSN_READONLY"] == "" {
			return do.Invoke[*bun.DB](i)
		}
		return OpenDB(vs["DB_DRIVER"], vs["DB_DSN_READONLY"], vs["DB_PASSWORD_READONLY"])
	})

	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis(vs["CLUSTER_REDIS_DB"], vs["REDIS_DB"], false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if vs["CLUSTER_REDIS_CACHE"] == "" && vs["REDIS_CACHE"] == "" {
			return caching.NewCacheLocal(10000, time.Minute), nil
		}

		dbRedis, err := newRedis(vs["CLUSTER_REDIS_CACHE"], vs["REDIS_CACHE"], false)
		if err != nil {
			return nil, err
		}
		return caching.NewCacheRedis(dbRedis, true)
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		if vs["REDIS_CACHE_READONLY"] == "" {
			return do.Invoke[caching.Cache](i)
		}

		dbRedis, err := newRedis(vs["CLUSTER_REDIS_CACHE"], vs["REDIS_CACHE_READONLY"], true)
		if err != nil {
			return nil, err
		}
		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		if vs["CLUSTER_REDIS_LIMITER"] == "" && vs["REDIS_LIMITER"] == "" {
			return limiter.Unlimited{}, nil
		}

		dbRedis, err := newRedis(vs["CLUSTER_REDIS_LIMITER"], vs["REDIS_LIMITER"], false)
		if err != nil {
			return nil, err
		}
		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (locker.Locker, error) {
		if vs["CLUSTER_REDIS_MUTEX"] == "" && vs["REDIS_MUTEX"] == "" {
			return locker.NewLocal(), nil
		}

		dbRedis, err := newRedis(vs["CLUSTER_REDIS_MUTEX"], vs["REDIS_MUTEX"], false)
		if err != nil {
			return nil, err
		}
		rs := redsync.New(goredis.NewPool(dbRedis))
		return locker.NewRedsync(rs, services.LOCK_EXPIRY), nil
	})

	services.Provide(injector)

	return injector
}

// OpenDB opens the primary store. sqlite runs on a single connection so
// writers never see SQLITE_BUSY.
func OpenDB(driver, dsn, password string) (*bun.DB, error) {
	switch driver {
	case DriverPostgres:
		opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
		if password != "" {
			opts = append(opts, pgdriver.WithPassword(password))
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case DriverSqlite:
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, errors.Newf("unknown DB_DRIVER %q", driver)
	}
}

func newRedis(clusterURL, url string, readonly bool) (redis.UniversalClient, error) {
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		clusterOpts.ReadOnly = readonly
		return redis.NewClusterClient(clusterOpts), nil
	}
	if url == "" {
		return nil, errors.New("redis url is not set")
	}

	return db.InitRedis(&db.RedisConfig{
		URL: url,
	})
}
