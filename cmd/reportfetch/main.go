package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reportfetch/internal/adapters/localstorage"
	"reportfetch/internal/adapters/reportserver"
	"reportfetch/internal/adapters/s3storage"
	"reportfetch/internal/config"
	"reportfetch/internal/core/domain"
	"reportfetch/internal/core/ports"
	"reportfetch/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, environment variables might be set manually
		log.Println("No .env file found")
	}

	configPath := flag.String("config", "jobs.json", "Path to the jobs config file")
	outputDir := flag.String("output-dir", "", "Override output directory for all jobs")
	only := flag.String("report", "", "Run only the job with this name prefix")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	jobs := cfg.Jobs
	if *outputDir != "" {
		for i := range jobs {
			jobs[i].OutputDir = *outputDir
		}
	}
	if *only != "" {
		jobs = filterByPrefix(jobs, *only)
		if len(jobs) == 0 {
			logger.Fatalf("No configured job with name prefix %q", *only)
		}
	}

	logger.Printf("Report server: %s", cfg.ReportServerURL)
	logger.Printf("Jobs to run: %d", len(jobs))

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Received interrupt signal, cancelling...")
		cancel()
	}()

	var creds ports.CredentialProvider = reportserver.AmbientCredentials{}
	if cfg.BasicAuthUser != "" {
		creds = reportserver.BasicAuthCredentials{
			Username: cfg.BasicAuthUser,
			Password: cfg.BasicAuthPassword,
		}
	}
	client := reportserver.NewClient(cfg.ReportServerURL, creds, cfg.HTTPTimeout)

	var storage ports.Storage
	switch cfg.StorageAdapter {
	case config.AdapterS3:
		storage, err = s3storage.New(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			KeyPrefix:       cfg.S3.KeyPrefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	default:
		storage = localstorage.NewLocalStorage()
	}

	fetcher := service.NewFetcher(client, storage, logger)
	orchestrator := service.NewOrchestrator(fetcher, logger)

	summary := orchestrator.Run(ctx, jobs)

	// Print summary
	fmt.Println("\n=== Run Summary ===")
	for _, r := range summary.Results {
		if r.Success {
			fmt.Printf("OK    %-40s %s\n", r.Job.NamePrefix, r.SavedPath)
		} else {
			fmt.Printf("FAIL  %-40s %s\n", r.Job.NamePrefix, r.ErrorMessage)
		}
	}
	failed := summary.Failed()
	fmt.Printf("\n%d job(s) run, %d failed\n", len(summary.Results), len(failed))

	if !summary.OK() {
		os.Exit(1)
	}
}

func filterByPrefix(jobs []domain.ReportJob, prefix string) []domain.ReportJob {
	var matched []domain.ReportJob
	for _, job := range jobs {
		if job.NamePrefix == prefix {
			matched = append(matched, job)
		}
	}
	return matched
}
