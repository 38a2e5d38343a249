package config_test

import (
	"os"
	"path/filepath"
	"taskManager/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoad_Defaults проверяет значения по умолчанию без файла
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "task-manager", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, config.RepositorySQLite, cfg.Repository.Type)
	assert.Equal(t, config.NotifierNone, cfg.Notifier.Type)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
}

// TestLoad_File проверяет чтение YAML
func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
app:
  name: tasks-test
server:
  port: "9090"
  rate_limit: 5
repository:
  type: inmemory
  seed_demo: true
notifier:
  type: lambda
  function_name: notify-fn
  timeout: 2s
logging:
  development: true
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tasks-test", cfg.App.Name)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RateLimit)
	assert.Equal(t, config.RepositoryInMemory, cfg.Repository.Type)
	assert.True(t, cfg.Repository.SeedDemo)
	assert.Equal(t, "notify-fn", cfg.Notifier.FunctionName)
	assert.Equal(t, 2*time.Second, cfg.Notifier.Timeout)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// TestLoad_EnvOverrides проверяет приоритет окружения над файлом
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, `
repository:
  type: sqlite
storage:
  bucket: from-file
`)

	t.Setenv("TASKMANAGER_REPOSITORY_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/tasks")
	t.Setenv("S3_BUCKET", "from-env")
	t.Setenv("TASKMANAGER_SERVER_PORT", "7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.RepositoryPostgres, cfg.Repository.Type)
	assert.Equal(t, "postgres://u:p@localhost:5432/tasks", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.RepositorySQLite, cfg.Repository.Type)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown repository",
			content: "repository:\n  type: mongo\n",
		},
		{
			name:    "postgres without url",
			content: "repository:\n  type: postgres\n",
		},
		{
			name:    "lambda without function",
			content: "notifier:\n  type: lambda\n  function_name: \"\"\n",
		},
		{
			name:    "unknown notifier",
			content: "notifier:\n  type: sns\n",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: verbose\n",
		},
		{
			name:    "min above max connections",
			content: "database:\n  max_connections: 2\n  min_connections: 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "невалидная конфигурация")
		})
	}
}
