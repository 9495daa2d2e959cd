package deps

import (
	"time"

	"github.com/redis/go-redis/v9"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/stpi-ops/portal/internal/cache"
	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/logger"
	"github.com/stpi-ops/portal/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	// Record Store collections, one per entity kind.
	Customers   store.Collection[*domain.Customer]
	Units       store.Collection[*domain.Unit]
	CoLocations store.Collection[*domain.CoLocation]

	// ListCache is nil when caching is disabled.
	ListCache *cache.Lists

	// Mongo is used by the infra status endpoint only; nil in tests running
	// against the memory backend.
	Mongo *driver.Client
	Redis *redis.Client
}
