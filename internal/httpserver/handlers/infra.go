package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	EntriesLoaded *int   `json:"entries_loaded,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		entries := d.Directory.Count()
		lastReload := "never"
		if t := d.Directory.LastReload(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"directory": {
				OK:            entries > 0,
				EntriesLoaded: &entries,
				LastReload:    lastReload,
			},
			"redis": checkRedis(d),
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Without the curated directory only the fallback provider works.
	if dir, exists := components["directory"]; exists && !dir.OK {
		return "critical"
	}
	// Without Redis every query degrades to directory + fallback.
	if rds, exists := components["redis"]; exists && !rds.OK {
		return "degraded"
	}
	return "ok"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Impact: "user-data-unavailable",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "user-data-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{OK: true}
}
