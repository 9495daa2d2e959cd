package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stpi-ops/portal/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports component health: the record store is critical, the list
// cache only degrades reads when down.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"mongo": checkMongo(d),
			"cache": checkCache(d),
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineMode(components map[string]componentStatus) string {
	if mongo, exists := components["mongo"]; exists && !mongo.OK {
		return "critical" // record store down = nothing works
	}
	if cache, exists := components["cache"]; exists && !cache.OK && cache.Mode != "disabled" {
		return "degraded" // cache down = every list read hits the store
	}
	return "optimal"
}

func checkMongo(d deps.Deps) componentStatus {
	if d.Mongo == nil {
		return componentStatus{
			OK:    false,
			Mode:  "critical",
			Error: "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "critical",
			Impact: "reads-and-writes-failing",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func checkCache(d deps.Deps) componentStatus {
	if d.ListCache == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "list-reads-uncached",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.ListCache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "list-reads-uncached",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
