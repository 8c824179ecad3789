package services

import (
	"catalog_server/database"
	"context"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart time.Time

func init() {
	uptimeStart = time.Now()
}

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type dependencyHealthStatus struct {
	Connected      bool      `json:"connected"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

type databaseHealthStatus struct {
	dependencyHealthStatus
	Cache *dependencyHealthStatus `json:"cache,omitempty"` // only when caching is enabled
}

type HealthService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService // nil when caching is disabled
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

// GetDatabaseHealthStatus pings the database and, when enabled, the cache.
// A cache failure is reported but does not fail the check.
func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, error) {
	status := databaseHealthStatus{}

	var err error
	status.dependencyHealthStatus, err = check(ctx, hs.db.Health)
	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}

	if hs.cache != nil {
		cacheStatus, cacheErr := check(ctx, hs.cache.Ping)
		if cacheErr != nil {
			hs.logger.Warn("Cache health check failed", gecho.Field("error", cacheErr))
		}
		status.Cache = &cacheStatus
	}

	return status, err
}

func check(ctx context.Context, ping func(context.Context) error) (dependencyHealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := ping(ctx)

	return dependencyHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}, err
}
