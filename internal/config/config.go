package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel       string
	WorkerCount    int
	DatabaseURL    string
	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
	IndexBatchSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		WorkerCount:    getEnvInt("WORKER_COUNT", 1),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/resannotate?sslmode=disable"),
		Neo4jURI:       getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", "password"),
		IndexBatchSize: getEnvInt("INDEX_BATCH_SIZE", 500),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
