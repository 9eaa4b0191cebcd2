package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("INDEX_BATCH_SIZE", "")

	cfg := Load()
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 500, cfg.IndexBatchSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NEO4J_USER", "annotator")

	cfg := Load()
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "annotator", cfg.Neo4jUser)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	assert.Equal(t, 3, getEnvInt("WORKER_COUNT", 3))
}
