package services

import (
	"fmt"
	"log"

	"github.com/localnerve/breedwatch/internal/config"
	"github.com/localnerve/breedwatch/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	DetectionAPI string            `json:"detectionApi,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping error: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "connected"
		}
	}

	// Check blob storage reachability
	if err := utils.PingStorage(cfg.StorageURL); err != nil {
		result.Status = "unhealthy"
		result.Storage = "unreachable"
		result.Details["storage_ping_error"] = err.Error()
		log.Printf("Health check failed - storage ping: %v", err)
	} else {
		result.Storage = "connected"
	}

	// Detection API is optional; report it only when configured
	if cfg.DetectionAPIURL != "" {
		if err := utils.PingDetectionAPI(cfg.DetectionAPIURL); err != nil {
			result.DetectionAPI = "unreachable"
			result.Details["detection_api_ping_error"] = err.Error()
			log.Printf("Health check warning - detection API ping: %v", err)
		} else {
			result.DetectionAPI = "connected"
		}
	}

	return result
}
