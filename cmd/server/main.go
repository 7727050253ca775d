package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/dates"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/handlers"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/maintenance"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/queue"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/records"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/storage"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Storage struct {
		Database string `yaml:"database"`
		TempDir  string `yaml:"temp_dir"`
		AudioDir string `yaml:"audio_dir"`
	} `yaml:"storage"`

	Workers struct {
		Count      int `yaml:"count"`
		QueueDepth int `yaml:"queue_depth"`
	} `yaml:"workers"`

	Sync struct {
		BatchSize               int `yaml:"batch_size"`
		IntervalMinutes         int `yaml:"interval_minutes"`
		PerRecordTimeoutSeconds int `yaml:"per_record_timeout_seconds"`
	} `yaml:"sync"`

	Sheets struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
	} `yaml:"sheets"`

	Statistics struct {
		WindowDays int `yaml:"window_days"`
	} `yaml:"statistics"`

	Pagination struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"pagination"`

	Whisper struct {
		Model string `yaml:"model"`
	} `yaml:"whisper"`

	Cleanup struct {
		MaxAgeHours int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

func main() {
	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := maintenance.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(config.Storage.AudioDir, 0755); err != nil {
		log.Fatalf("Failed to create audio directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	log.Println("Initializing components...")

	// Database
	store, err := storage.NewStore(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Google Sheets sink (optional - may fail if credentials not set up)
	var sink records.RowSink
	if _, err := os.Stat(config.Sheets.CredentialsFile); err == nil {
		sheetsClient, err := storage.NewSheetsClient(
			config.Sheets.CredentialsFile,
			config.Sheets.TokenFile,
			config.Sheets.SpreadsheetID,
		)
		if err != nil {
			log.Printf("WARNING: Google Sheets not available: %v", err)
			log.Println("Records will only be stored locally")
		} else {
			sink = sheetsClient
			log.Println("Google Sheets integration enabled")
		}
	} else {
		log.Println("Google Sheets credentials not found - storing locally only")
	}

	// Sync coordinator + worker pool
	perRecordTimeout := time.Duration(config.Sync.PerRecordTimeoutSeconds) * time.Second
	coordinator := records.NewCoordinator(store, sink, perRecordTimeout)

	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		config.Workers.QueueDepth,
		coordinator,
		perRecordTimeout,
	)
	workerPool.Start()
	defer workerPool.Stop()

	// Record lifecycle service
	service := records.NewService(store, dates.NewDeriver(), workerPool, records.Config{
		DefaultLimit:    config.Pagination.DefaultLimit,
		MaxLimit:        config.Pagination.MaxLimit,
		StatsWindowDays: config.Statistics.WindowDays,
	})

	// Maintenance scheduler (periodic resync + temp cleanup)
	var resyncer maintenance.Resyncer
	if sink != nil {
		resyncer = coordinator
	}
	scheduler := maintenance.NewScheduler(
		resyncer,
		config.Sync.BatchSize,
		config.Storage.TempDir,
		time.Duration(config.Sync.IntervalMinutes)*time.Minute,
		time.Duration(config.Cleanup.MaxAgeHours)*time.Hour,
	)
	scheduler.Start()
	defer scheduler.Stop()

	// Whisper transcriber + audio archive
	transcriber := transcription.NewWhisperTranscriber(config.Whisper.Model, config.Storage.TempDir)
	audioStore := storage.NewAudioStore(config.Storage.AudioDir)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	recordsHandler := handlers.NewRecordsHandler(service)
	uploadHandler := handlers.NewUploadHandler(service, transcriber, audioStore,
		config.Storage.TempDir, config.Limits.MaxFileSizeMB)
	validateHandler := handlers.NewValidateHandler()
	statisticsHandler := handlers.NewStatisticsHandler(service)
	syncHandler := handlers.NewSyncHandler(coordinator, config.Sync.BatchSize)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/api/records", recordsHandler.Create)
	app.Get("/api/records", recordsHandler.List)
	app.Get("/api/records/:id", recordsHandler.Get)
	app.Post("/api/records/audio", uploadHandler.Handle)
	app.Post("/api/validate", validateHandler.Check)
	app.Get("/api/statistics", statisticsHandler.Get)
	app.Post("/api/sync", syncHandler.Trigger)

	// WebSocket route
	app.Get("/ws/validate", websocket.New(validateHandler.Stream))

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /api/records       - Create record from transcription")
	log.Println("   POST /api/records/audio - Upload audio recording")
	log.Println("   GET  /api/records       - List records (filter + paginate)")
	log.Println("   GET  /api/records/:id   - Get single record")
	log.Println("   POST /api/validate      - Dry-run grammar validation")
	log.Println("   GET  /ws/validate       - Live validation stream")
	log.Println("   GET  /api/statistics    - Daily / group statistics")
	log.Println("   POST /api/sync          - Manual sheet resync")
	log.Println("   GET  /logs              - View server logs")
	log.Println("   GET  /health            - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
