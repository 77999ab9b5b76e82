package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Server    ServerConfig
	Storage   StorageConfig
	Minio     MinioConfig
	S3        S3Config
	Recording RecordingConfig
	Cleanup   CleanupConfig
	Redis     RedisConfig
	NATS      NATSConfig
	LiveKit   LiveKitConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// StorageConfig selects the object store backend (minio or s3)
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"minio"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"recordings"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type S3Config struct {
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	BucketName      string `envconfig:"AWS_S3_BUCKET"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

// RecordingConfig drives the upload session service
type RecordingConfig struct {
	DefaultEstimatedParts int           `envconfig:"RECORDING_DEFAULT_ESTIMATED_PARTS" default:"20"`
	PartURLExpiry         time.Duration `envconfig:"RECORDING_PART_URL_EXPIRY" default:"1h"`
	DownloadURLExpiry     time.Duration `envconfig:"RECORDING_DOWNLOAD_URL_EXPIRY" default:"15m"`
	MinPartSize           int64         `envconfig:"RECORDING_MIN_PART_SIZE" default:"5242880"` // 5MB
	MaxRetries            int           `envconfig:"RECORDING_MAX_RETRIES" default:"3"`
	RetryDelay            time.Duration `envconfig:"RECORDING_RETRY_DELAY" default:"1s"`
}

type CleanupConfig struct {
	Every     time.Duration `envconfig:"CLEANUP_EVERY" default:"15m"`
	OrphanTTL time.Duration `envconfig:"CLEANUP_ORPHAN_TTL" default:"6h"`
	LockTTL   time.Duration `envconfig:"CLEANUP_LOCK_TTL" default:"5m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" default:"RECORDINGS"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" default:"recording-events"`
	Subject      string        `envconfig:"NATS_SUBJECT" default:"minio.recordings"`
	NakDelay     time.Duration `envconfig:"NATS_NAK_DELAY" default:"1s"`
}

type LiveKitConfig struct {
	URL       string `envconfig:"LIVEKIT_URL"`
	APIKey    string `envconfig:"LIVEKIT_API_KEY"`
	APISecret string `envconfig:"LIVEKIT_API_SECRET"`
}

// Enabled reports whether LiveKit credentials are configured
func (c LiveKitConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != "" && c.APISecret != ""
}

// RecorderConfig configures the recorder client
type RecorderConfig struct {
	ServiceURL     string        `envconfig:"RECORDER_SERVICE_URL" default:"http://localhost:8080/api/v1"`
	ChunkInterval  time.Duration `envconfig:"RECORDER_CHUNK_INTERVAL" default:"3m"`
	EstimatedParts int           `envconfig:"RECORDER_ESTIMATED_PARTS" default:"20"`
	MaxTotalBytes  int64         `envconfig:"RECORDER_MAX_TOTAL_BYTES" default:"4294967296"` // 4GB
	FFmpegPath     string        `envconfig:"RECORDER_FFMPEG_PATH" default:"ffmpeg"`
	InputFormat    string        `envconfig:"RECORDER_INPUT_FORMAT" default:"x11grab"`
	VideoInput     string        `envconfig:"RECORDER_VIDEO_INPUT" default:":0.0"`
	AudioFormat    string        `envconfig:"RECORDER_AUDIO_FORMAT" default:"pulse"`
	AudioInput     string        `envconfig:"RECORDER_AUDIO_INPUT" default:"default"`
	HTTPTimeout    time.Duration `envconfig:"RECORDER_HTTP_TIMEOUT" default:"5m"`
	LiveKit        LiveKitConfig
}

// Load loads the service configuration from the environment and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadRecorder loads the recorder client configuration
func LoadRecorder() (*RecorderConfig, error) {
	_ = godotenv.Load()

	var cfg RecorderConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
