package main

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"kcal/internal/predict"
)

// Coefficients of the linear stand-in for the trained regressor.
type Coefficients struct {
	Intercept float64 `json:"intercept"`
	Age       float64 `json:"age"`
	Duration  float64 `json:"duration"`
	HeartRate float64 `json:"heart_rate"`
	BodyTemp  float64 `json:"body_temp"`
}

// defaultCoefficients approximate the trained model on the workout dataset.
func defaultCoefficients() Coefficients {
	return Coefficients{
		Intercept: -555.0,
		Age:       0.45,
		Duration:  5.1,
		HeartRate: 2.3,
		BodyTemp:  7.5,
	}
}

// Model evaluates the calorie estimate. Coefficients can be swapped at
// runtime when the backing file changes.
type Model struct {
	mu     sync.RWMutex
	coefs  Coefficients
	path   string
	logger *zap.Logger
}

// NewModel builds a model from the given coefficients file. An empty path or
// an unreadable file falls back to the built-in coefficients.
func NewModel(path string, logger *zap.Logger) *Model {
	m := &Model{
		coefs:  defaultCoefficients(),
		path:   path,
		logger: logger,
	}

	if path == "" {
		logger.Info("using built-in model coefficients")
		return m
	}

	if err := m.Reload(); err != nil {
		logger.Warn("failed to load model file, using built-in coefficients",
			zap.String("path", path),
			zap.Error(err))
	}
	return m
}

// Reload reads the coefficients file and swaps the model in place. The old
// coefficients stay active when the file cannot be parsed.
func (m *Model) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}

	var coefs Coefficients
	if err := json.Unmarshal(data, &coefs); err != nil {
		return err
	}

	m.mu.Lock()
	m.coefs = coefs
	m.mu.Unlock()

	m.logger.Info("model coefficients loaded", zap.String("path", m.path))
	return nil
}

// Coefficients returns the active coefficient set.
func (m *Model) Coefficients() Coefficients {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coefs
}

// Predict evaluates the linear model. Estimates are clamped at zero and
// rounded to two decimals.
func (m *Model) Predict(req predict.Request) float64 {
	c := m.Coefficients()

	raw := c.Intercept +
		c.Age*req.Age +
		c.Duration*req.Duration +
		c.HeartRate*req.HeartRate +
		c.BodyTemp*req.BodyTemp

	if raw < 0 {
		raw = 0
	}
	return math.Round(raw*100) / 100
}

// Watcher reloads the model when its file changes on disk. Rapid saves are
// debounced so editors that write in bursts trigger a single reload.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	model       *Model
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger
}

// NewWatcher creates a watcher for the model's coefficients file.
func NewWatcher(model *Model, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     fw,
		model:       model,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
// The directory is watched rather than the file because most editors replace
// the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.model.path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.logger.Info("watching model file", zap.String("path", w.model.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("error closing model watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("model watcher error", zap.Error(err))

		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.model.path) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	settled := false
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.debounceMap, path)
			settled = true
		}
	}
	w.mu.Unlock()

	if !settled {
		return
	}

	if err := w.model.Reload(); err != nil {
		w.logger.Warn("model reload failed, keeping previous coefficients", zap.Error(err))
	}
}
