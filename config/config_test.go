package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 6060},
		Auth:    AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
		Storage: StorageConfig{Provider: "local"},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Storage.Provider = "s3"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Storage.Provider = "oss"
	assert.Error(t, cfg.Validate(), "oss 缺少 bucket 时应校验失败")
	cfg.Storage.OSS = OSSConfig{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "edu"}
	assert.NoError(t, cfg.Validate())
}

func TestDSN_DefaultParams(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 3306, Name: "eduinsight", User: "root", Password: "pw"}
	dsn := c.DSN()
	assert.Contains(t, dsn, "root:pw@tcp(db:3306)/eduinsight?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
auth:
  jwt_secret: file-secret-0123456789
db:
  name: from_file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("EDU_DB_NAME", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "13800000000", cfg.Auth.AdminPhone)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, 1000, cfg.Import.MaxRows)
}
