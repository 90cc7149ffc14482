package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/api"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/cache"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/db"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/email"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/storage"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'worker' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	ctxIdx, cancelIdx := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctxIdx, mongoDb); err != nil {
		cancelIdx()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIdx()

	// Initialize Cache (Redis, backs the task queue)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize S3 Client (needed by the photo processing task)
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		log.Fatalf("Failed to load AWS config for S3 client: %v", err)
	}
	s3Client := s3.NewFromConfig(awsCfg)

	s3StorageService, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	emailSender := email.NewSMTPSender(cfg)
	catalogService := services.NewCatalogService(mongoDb, cfg)

	// Initialize Task Client and Processor
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()
	taskProcessor := tasks.NewTaskProcessor(cfg, emailSender, catalogService, s3Client)

	var wg sync.WaitGroup
	var mainApiSrv *http.Server

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		// Router initializes its own handler services
		mainApiRouter := api.SetupRouter(cfg, mongoDb, taskClient, s3StorageService)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	workerMode := func() {
		fmt.Println("Starting background worker...")
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Run blocks until the asynq server is shut down; asynq handles
			// SIGINT/SIGTERM itself.
			if err := tasks.SetupServer(redisClient, taskProcessor); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
			fmt.Println("Background task server stopped.")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "worker":
		workerMode()
	case "all":
		apiMode()
		workerMode()
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
