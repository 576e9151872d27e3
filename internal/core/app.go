package core

import (
	"fmt"
	"log"
	"time"

	"github.com/slidecast/slidecast-go/internal/config"
	"github.com/slidecast/slidecast-go/internal/export"
	"github.com/slidecast/slidecast-go/internal/jobs"
	"github.com/slidecast/slidecast-go/internal/jobstore"
	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/pipeline"
	"github.com/slidecast/slidecast-go/internal/refine"
	"github.com/slidecast/slidecast-go/internal/subtitle"
	"github.com/slidecast/slidecast-go/internal/synth"
	"github.com/slidecast/slidecast-go/internal/synth/providers/mockvoice"
	"github.com/slidecast/slidecast-go/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the background jobs.
type App struct {
	cfg        *config.Config
	store      *jobstore.Store
	hub        *websocket.Hub
	registry   *synth.Registry
	router     *synth.Router
	orch       *pipeline.Orchestrator
	jobManager *jobs.JobManager
	version    string
}

// New sets up and returns a new App instance. It loads the
// configuration and wires the job store, progress hub, synthesis chain
// and orchestrator together.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(cfg, version), nil
}

// NewWithConfig builds the App around an already loaded configuration.
// Tests use it to avoid touching config files on disk.
func NewWithConfig(cfg *config.Config, version string) *App {
	app := &App{
		cfg:      cfg,
		store:    jobstore.New(time.Duration(cfg.JobTTLMinutes) * time.Minute),
		hub:      websocket.NewHub(),
		registry: synth.NewRegistry(),
		version:  version,
	}

	// The chain lists providers in fallback order. Registration order
	// is chain order; names without a built-in implementation are
	// skipped with a warning so a stale config cannot brick startup.
	for _, name := range cfg.Synthesis.Chain {
		switch name {
		case "mockvoice":
			app.registry.Register(mockvoice.New())
		default:
			log.Printf("Unknown synthesis provider %q in chain, skipping", name)
		}
	}
	app.router = synth.NewRouter(app.registry, cfg.Synthesis.Preferred)

	subOpts := subtitle.Options{
		SpeakingRateWPM:     cfg.Subtitles.SpeakingRateWPM,
		MinDuration:         cfg.Subtitles.MinDuration,
		MaxDuration:         cfg.Subtitles.MaxDuration,
		MaxCharsPerLine:     cfg.Subtitles.MaxCharsPerLine,
		MaxCharsPerSubtitle: cfg.Subtitles.MaxCharsPerSubtitle,
		MinGap:              cfg.Subtitles.MinGap,
	}

	app.orch = pipeline.New(pipeline.Deps{
		Store:     app.store,
		Hub:       app.hub,
		Router:    app.router,
		Subtitles: subtitle.NewEngine(subOpts, nil),
		Refiner:   refine.NewPassthrough(),
		Exporter:  export.NewFileExporter(cfg.Output.Path),
		DefaultVoice: models.VoiceSettings{
			Voice:  cfg.Voice.Name,
			Speed:  cfg.Voice.Speed,
			Pitch:  cfg.Voice.Pitch,
			Format: cfg.Voice.Format,
		},
	})

	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app)

	log.Println("Core application setup complete.")
	return app
}

func (a *App) Config() *config.Config               { return a.cfg }
func (a *App) Store() *jobstore.Store               { return a.store }
func (a *App) WsHub() *websocket.Hub                { return a.hub }
func (a *App) Registry() *synth.Registry            { return a.registry }
func (a *App) Router() *synth.Router                { return a.router }
func (a *App) Orchestrator() *pipeline.Orchestrator { return a.orch }
func (a *App) JobManager() *jobs.JobManager         { return a.jobManager }
func (a *App) Version() string                      { return a.version }
