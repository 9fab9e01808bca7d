package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string // Host IP for the server
	RESTPort        int    // Port for the REST API
	GinMode         string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret       string // Secret key for JWT signing
	JWTIssuer       string // Issuer claim for JWTs
	RedisAddr       string // host:port of Redis; empty disables snapshot persistence
	RedisPassword   string // Password for Redis
	RedisDB         int    // Redis logical database
	SnapshotTTL     int    // Seconds a saved generation survives without updates
	MongoURI        string // MongoDB connection URI; empty disables the maze archive
	MongoDB         string // Name of the archive database
	MongoCollection string // Name of the archive collection
	MazeWidth       int    // Default maze width
	MazeHeight      int    // Default maze height
	StepRate        int    // Default auto-step rate in steps per second
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:          getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:        getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:         getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:       getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer:       getEnvWithDefault("JWT_ISSUER", "vinom-maze"),
		RedisAddr:       getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:   getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsIntWithDefault("REDIS_DB", 0),
		SnapshotTTL:     getEnvAsIntWithDefault("SNAPSHOT_TTL", 3600),
		MongoURI:        getEnvWithDefault("MONGO_URI", ""),
		MongoDB:         getEnvWithDefault("MONGO_DB", "vinom_maze"),
		MongoCollection: getEnvWithDefault("MONGO_COLLECTION", "mazes"),
		MazeWidth:       getEnvAsIntWithDefault("MAZE_WIDTH", 90),
		MazeHeight:      getEnvAsIntWithDefault("MAZE_HEIGHT", 50),
		StepRate:        getEnvAsIntWithDefault("STEP_RATE", 60),
	}
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.RESTPort <= 0 || c.RESTPort > 65535 {
		return errors.New("REST_PORT is out of range")
	}
	return nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an environment variable as an integer, falling back to the default
// when it is unset. A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
