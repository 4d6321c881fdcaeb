package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger", "/media"},
	}
}

// Profiling runs the rest of the chain under Pyroscope labels for route,
// method and store so profiles can be filtered per endpoint
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] || hasAnyPrefix(path, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:   route,
			telemetry.ProfilingLabelMethod:  c.Request.Method,
			telemetry.ProfilingLabelStoreID: c.Param("storeId"),
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
