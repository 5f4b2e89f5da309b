package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	Password string

	StreamURL  string // MJPEG endpoint of the onboard camera server
	ControlURL string // base URL of the drive/status control server

	ModelPath           string
	ConfidenceThreshold float64
	IoUThreshold        float64
	InferenceCooldown   time.Duration
	BroadcastInterval   time.Duration

	CanvasWidth  int
	CanvasHeight int

	SnapshotDirectory        string
	SnapshotBufferLimit      int
	SnapshotFlushInterval    time.Duration
	MaxSnapshotDirectorySize int64 // GB

	DatabasePath string
	LogDirectory string
}

func Load() *Config {
	// Missing .env is fine; the environment itself may carry the keys.
	_ = godotenv.Load()

	return &Config{
		Port:                     getEnvAsInt("PORT", 8080),
		Password:                 getEnv("PASSWORD", "wheelchair"),
		StreamURL:                getEnv("STREAM_URL", "http://192.168.4.1:8000/stream.mjpg"),
		ControlURL:               getEnv("CONTROL_URL", "http://192.168.4.1:8000"),
		ModelPath:                getEnv("MODEL_PATH", filepath.Join(".", "models", "ssd_mobilenet_v1_quant.tflite")),
		ConfidenceThreshold:      getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.45),
		IoUThreshold:             getEnvAsFloat("IOU_THRESHOLD", 0.4),
		InferenceCooldown:        getEnvAsMillis("INFERENCE_COOLDOWN_MS", 150),
		BroadcastInterval:        getEnvAsMillis("BROADCAST_INTERVAL_MS", 40),
		CanvasWidth:              getEnvAsInt("CANVAS_WIDTH", 1280),
		CanvasHeight:             getEnvAsInt("CANVAS_HEIGHT", 720),
		SnapshotDirectory:        getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotBufferLimit:      getEnvAsInt("SNAPSHOT_BUFFER_LIMIT", 7),
		SnapshotFlushInterval:    getEnvAsMillis("SNAPSHOT_FLUSH_INTERVAL_MS", 30000),
		MaxSnapshotDirectorySize: getEnvAsInt64("MAX_SNAPSHOT_DIRECTORY_SIZE", 4),
		DatabasePath:             getEnv("DATABASE_PATH", filepath.Join(".", "data", "detections.db")),
		LogDirectory:             getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Millisecond
}
