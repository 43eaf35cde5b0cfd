package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bang/internal/directory"
	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/ratelimit"
	"github.com/MrSnakeDoc/bang/internal/resolve"
	"github.com/MrSnakeDoc/bang/internal/secretary"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access healthz/readyz/reload endpoints
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient   *redis.Client    // Redis client connection
	Store         *storage.Store   // persistence for bangs, tabs, bookmarks, notes, reminders, sessions
	Directory     *directory.Directory
	Router        *resolve.Router
	Limiter       *ratelimit.Limiter
	Secretary     *secretary.Secretary // seals the auth cookie
	CookieName    string               // auth/session cookie name
	SessionTTL    time.Duration
	StartURL      string        // where an empty query lands
	ReloadTrigger chan struct{} // channel to trigger a manual directory reload
}
