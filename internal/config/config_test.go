package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "videos_db", cfg.Database.Database)
				assert.Equal(t, "video_tasks_exchange", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "video_tasks_queue", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "video-uploads", cfg.S3.Bucket)
				assert.Equal(t, 100, cfg.Limits.GlobalDailyUploads)
				assert.Equal(t, 10, cfg.Limits.UserDailyUploads)
				assert.Equal(t, 4, cfg.Worker.Concurrency)
				assert.Equal(t, 30*time.Second, cfg.Worker.ShutdownTimeout)
				assert.Equal(t, "video-api-service", cfg.App.Name)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "videos_db",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			Exchange: ExchangeConfig{
				Name: "video_tasks_exchange",
			},
			Queue: QueueConfig{
				Name: "video_tasks_queue",
			},
		},
		S3: S3Config{
			Region: "ap-southeast-1",
			Bucket: "video-uploads",
		},
		Limits: LimitsConfig{
			GlobalDailyUploads: 100,
			UserDailyUploads:   10,
		},
		Worker: WorkerConfig{
			Concurrency:     4,
			WorkDir:         "/tmp/video-worker",
			FFmpegPath:      "ffmpeg",
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name:      "missing rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name:      "missing exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "missing s3 bucket",
			mutate:    func(c *Config) { c.S3.Bucket = "" },
			wantErr:   true,
			errString: "s3 bucket is required",
		},
		{
			name:      "missing s3 region",
			mutate:    func(c *Config) { c.S3.Region = "" },
			wantErr:   true,
			errString: "s3 region is required",
		},
		{
			name:      "zero global daily limit",
			mutate:    func(c *Config) { c.Limits.GlobalDailyUploads = 0 },
			wantErr:   true,
			errString: "global daily upload limit",
		},
		{
			name:      "zero user daily limit",
			mutate:    func(c *Config) { c.Limits.UserDailyUploads = 0 },
			wantErr:   true,
			errString: "user daily upload limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "worker concurrency",
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Worker.ShutdownTimeout = 0 },
			wantErr:   true,
			errString: "worker shutdown_timeout",
		},
		{
			name:      "missing s3 bucket",
			mutate:    func(c *Config) { c.S3.Bucket = "" },
			wantErr:   true,
			errString: "s3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
