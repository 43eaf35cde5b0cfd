package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Directory bool `json:"directory"`
	Redis     bool `json:"redis"`
}

// Readyz reports whether the service can actually answer queries: the
// directory must be loaded and Redis reachable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyzResponse{
			Directory: d.Directory != nil && d.Directory.Count() > 0,
			Redis:     d.RedisClient != nil && d.RedisClient.Ping(ctx).Err() == nil,
		}
		resp.Ready = resp.Directory && resp.Redis

		w.Header().Set("Content-Type", "application/json")
		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
