package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/catalog"
	"github.com/refdeck/refdeck/internal/logger"
	"github.com/refdeck/refdeck/internal/notify"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	RedisClient *redis.Client      // Redis client connection, for readiness checks
	Assembler   *catalog.Assembler // Live merged category tree
	Feed        *notify.Feed       // Live notification feed
	Mutations   *catalog.Service   // Mutation service for categories and links
}
