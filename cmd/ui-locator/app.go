package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/config"
	"github.com/ironsheep/ui-locator-mcp/internal/display"
	"github.com/ironsheep/ui-locator-mcp/internal/feedback"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/locate"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	display  display.Display
	conv     *geometry.Converter
	recorder *feedback.Recorder
	resolver *locate.Resolver

	closers []func() error
}

// loadConfig reads the dotenv file and configuration and installs the logger.
// The returned context carries the logger.
func loadConfig(ctx context.Context) (context.Context, *app, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return ctx, nil, err
	}

	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return ctx, nil, err
	}
	cfg := mgr.Get()

	log, flush, err := logger.Init(cfg.Log.Level)
	if err != nil {
		return ctx, nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() error { flush(); return nil })

	if f := mgr.ConfigFile(); f != "" {
		log.Debug("loaded config file", zap.String("path", f))
	}
	return logger.ContextWithLogger(ctx, log), a, nil
}

// openDisplay connects to the live display when enabled and builds the
// coordinate converter. Without a live display the configured screen size is
// used and the window strategy is unavailable.
func (a *app) openDisplay(ctx context.Context) {
	fallback := a.cfg.Screen.Fallback()
	if a.cfg.Screen.Live {
		d, err := display.Open(ctx, a.cfg.Screen.Display)
		if err == nil {
			a.display = d
			a.closers = append(a.closers, d.Close)
			a.conv = geometry.NewConverter(d, fallback)
			a.conv.Refresh(ctx)
			a.log.Info("display connected", zap.String("backend", d.Name()))
			return
		}
		a.log.Warn("display unavailable, using configured screen size",
			zap.Error(err),
			zap.Int("width", fallback.PhysicalWidth),
			zap.Int("height", fallback.PhysicalHeight))
	}
	a.conv = geometry.NewConverter(nil, fallback)
}

// openRecorder opens the configured feedback store and loads its history.
func (a *app) openRecorder(ctx context.Context) error {
	store, err := feedback.NewStore(a.cfg.Feedback)
	if err != nil {
		return err
	}
	rec, err := feedback.NewRecorder(ctx, store)
	if err != nil {
		_ = store.Close()
		return err
	}
	a.recorder = rec
	a.closers = append(a.closers, rec.Close)
	return nil
}

// openResolver wires the full pipeline.
func (a *app) openResolver(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.openDisplay(ctx)
	if err := a.openRecorder(ctx); err != nil {
		return err
	}

	client := a.cfg.Vision.ClientConfig()
	if client.APIKey == "" && client.BaseURL == "" {
		return errors.New("no vision API key configured: set OPENAI_API_KEY or vision.api_key")
	}

	deps := locate.Deps{
		Converter: a.conv,
		Vision:    vision.NewOpenAIClient(client),
		Recorder:  a.recorder,
		Model:     a.cfg.Vision.ModelConfig(),
		Options:   a.cfg.Locate,
	}
	if a.cfg.OCR.Enabled {
		deps.Extractor = ocr.NewTesseract(a.cfg.OCR.Options())
	}
	if a.display != nil {
		deps.Windows = a.display
		deps.Capturer = a.display
	}
	a.resolver = locate.NewResolver(deps)
	return nil
}

// Close releases everything in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
