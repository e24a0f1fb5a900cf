package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"reportfetch/internal/core/domain"
)

// Storage adapter names.
const (
	AdapterFilesystem = "filesystem"
	AdapterS3         = "s3"
)

// jobSpec is one job entry in the config file.
type jobSpec struct {
	ReportPath   string `json:"reportPath"`
	NamePrefix   string `json:"namePrefix"`
	DateStrategy string `json:"dateStrategy"`
	OutputDir    string `json:"outputDir"`
}

// fileSpec is the on-disk JSON shape.
type fileSpec struct {
	ReportServerURL string    `json:"reportServerURL"`
	OutputDir       string    `json:"outputDir"`
	Jobs            []jobSpec `json:"jobs"`
}

// S3 holds the optional object storage archive settings.
type S3 struct {
	Bucket          string
	Region          string
	KeyPrefix       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Config is the resolved runtime configuration: the JSON jobs file with
// environment overrides applied on top.
type Config struct {
	ReportServerURL   string
	OutputDir         string
	HTTPTimeout       time.Duration
	StorageAdapter    string
	BasicAuthUser     string
	BasicAuthPassword string
	S3                S3
	Jobs              []domain.ReportJob
}

// Load reads the jobs file at path, applies environment overrides and
// per-job defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var spec fileSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := &Config{
		ReportServerURL:   getEnv("REPORT_SERVER_URL", spec.ReportServerURL),
		OutputDir:         getEnv("REPORT_OUTPUT_DIR", spec.OutputDir),
		HTTPTimeout:       getDuration("REPORT_HTTP_TIMEOUT", "2m"),
		StorageAdapter:    getEnv("STORAGE_ADAPTER", AdapterFilesystem),
		BasicAuthUser:     os.Getenv("REPORT_BASIC_AUTH_USER"),
		BasicAuthPassword: os.Getenv("REPORT_BASIC_AUTH_PASSWORD"),
		S3: S3{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          os.Getenv("S3_REGION"),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "reports"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./reports"
	}

	for i, js := range spec.Jobs {
		job, err := buildJob(js, cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		cfg.Jobs = append(cfg.Jobs, job)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildJob(js jobSpec, defaultDir string) (domain.ReportJob, error) {
	if js.ReportPath == "" {
		return domain.ReportJob{}, fmt.Errorf("reportPath is required")
	}

	strategy, err := domain.ParseDateStrategy(js.DateStrategy)
	if err != nil {
		return domain.ReportJob{}, err
	}

	// Explicit prefixes go through the same sanitization as derived
	// ones: a prefix with path separators or dot segments would let the
	// saved file land outside the job's output directory.
	prefix := domain.SanitizeName(js.NamePrefix)
	if prefix == "" {
		prefix = domain.SanitizeName(js.ReportPath)
	}
	if prefix == "" {
		return domain.ReportJob{}, fmt.Errorf("name prefix for report %q sanitizes to empty", js.ReportPath)
	}

	outputDir := js.OutputDir
	if outputDir == "" {
		outputDir = defaultDir
	}

	return domain.ReportJob{
		ReportPath:   js.ReportPath,
		DateStrategy: strategy,
		NamePrefix:   prefix,
		OutputDir:    outputDir,
	}, nil
}

// Validate checks the resolved configuration for the mistakes that
// would otherwise only surface mid-run.
func (c *Config) Validate() error {
	if c.ReportServerURL == "" {
		return fmt.Errorf("report server URL is required (config file or REPORT_SERVER_URL)")
	}
	if len(c.Jobs) == 0 {
		return fmt.Errorf("at least one report job is required")
	}
	switch c.StorageAdapter {
	case AdapterFilesystem:
	case AdapterS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_ADAPTER=s3")
		}
	default:
		return fmt.Errorf("unsupported storage adapter: %s", c.StorageAdapter)
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration gets an environment variable as a duration with a default value.
func getDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if d, err := time.ParseDuration(defaultValue); err == nil {
		return d
	}
	return 2 * time.Minute
}
