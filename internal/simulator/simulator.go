package simulator

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/ecosort/internal/config"
	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/store"
)

var (
	ErrUnknownBin     = errors.New("unknown bin")
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation not running")
)

// Ticker abstracts the tick schedule so tests can single-step the engine
// instead of waiting on wall-clock timers.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Baseline holds the slider-set values each tick jitters around.
type Baseline struct {
	FillLevel       float64 `json:"fillLevel"`
	Weight          float64 `json:"weight"`
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	Methane         float64 `json:"methane"`
	Ammonia         float64 `json:"ammonia"`
	HydrogenSulfide float64 `json:"hydrogenSulfide"`
}

// DefaultBaseline mirrors the initial slider positions of the dashboard.
func DefaultBaseline() Baseline {
	return Baseline{
		FillLevel:       65,
		Weight:          13.2,
		Temperature:     24.5,
		Humidity:        68,
		Methane:         15,
		Ammonia:         10,
		HydrogenSulfide: 4,
	}
}

// TickEvent describes one completed tick, for telemetry subscribers.
type TickEvent struct {
	BinID   string              `json:"binId"`
	Reading model.SensorReading `json:"reading"`
	Bin     model.Bin           `json:"bin"`
	Alerts  []model.Alert       `json:"alerts"`
}

type run struct {
	baseline Baseline
	ticker   Ticker
	stop     chan struct{}
	done     chan struct{}
}

// Engine drives synthetic sensor readings for bins. Each bin is either
// idle or running; while running, readings are produced on every tick and
// written back to the store.
type Engine struct {
	store     *store.Store
	log       zerolog.Logger
	tick      time.Duration
	newTicker TickerFactory
	jitter    func(scale float64) float64
	onTick    func(TickEvent)

	mu   sync.Mutex
	runs map[string]*run
}

func New(st *store.Store, cfg config.SimulatorConfig, log zerolog.Logger) *Engine {
	return &Engine{
		store:     st,
		log:       log,
		tick:      cfg.Tick,
		newTicker: newRealTicker,
		jitter: func(scale float64) float64 {
			return (rand.Float64() - 0.5) * 2 * scale
		},
		runs: make(map[string]*run),
	}
}

// OnTick registers a callback invoked after every completed tick.
func (e *Engine) OnTick(fn func(TickEvent)) {
	e.onTick = fn
}

func (e *Engine) Running(binID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.runs[binID]
	return ok
}

// Start moves a bin from idle to running.
func (e *Engine) Start(binID string, baseline Baseline) error {
	if _, ok := e.store.Bin(binID); !ok {
		return ErrUnknownBin
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.runs[binID]; ok {
		return ErrAlreadyRunning
	}

	r := &run{
		baseline: baseline,
		ticker:   e.newTicker(e.tick),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.runs[binID] = r

	go e.loop(binID, r)

	e.log.Info().Str("bin", binID).Dur("tick", e.tick).Msg("simulation started")
	return nil
}

// Stop moves a bin back to idle. Stopping an idle bin is a no-op.
func (e *Engine) Stop(binID string) {
	e.mu.Lock()
	r, ok := e.runs[binID]
	if ok {
		delete(e.runs, binID)
	}
	e.mu.Unlock()

	if !ok {
		return
	}
	close(r.stop)
	<-r.done
	e.log.Info().Str("bin", binID).Msg("simulation stopped")
}

// StopAll stops every running bin, for shutdown.
func (e *Engine) StopAll() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.runs))
	for id := range e.runs {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		e.Stop(id)
	}
}

// UpdateBaseline replaces the slider values of a running simulation.
func (e *Engine) UpdateBaseline(binID string, baseline Baseline) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.runs[binID]
	if !ok {
		return ErrNotRunning
	}
	r.baseline = baseline
	return nil
}

func (e *Engine) loop(binID string, r *run) {
	defer close(r.done)
	for {
		select {
		case <-r.ticker.C():
			e.step(binID)
		case <-r.stop:
			r.ticker.Stop()
			return
		}
	}
}

// step performs one tick: jitter the baseline, append the reading to the
// ring buffer, write the derived status back onto the bin.
func (e *Engine) step(binID string) {
	e.mu.Lock()
	r, ok := e.runs[binID]
	var baseline Baseline
	if ok {
		baseline = r.baseline
	}
	e.mu.Unlock()
	if !ok {
		return
	}

	bin, ok := e.store.Bin(binID)
	if !ok {
		return
	}

	reading := e.nextReading(baseline, bin.BatteryLevel)
	e.store.AppendReading(binID, reading)

	fill := int(math.Round(reading.FillLevel))
	status := model.DeriveBinStatus(reading.FillLevel)
	updated, _ := e.store.UpdateBin(binID, model.BinPatch{FillLevel: &fill, Status: &status})

	if e.onTick != nil {
		e.onTick(TickEvent{
			BinID:   binID,
			Reading: reading,
			Bin:     updated,
			Alerts:  computeAlerts(reading.FillLevel, updated.BatteryLevel, reading.GasLevels.Methane),
		})
	}
}

func (e *Engine) nextReading(b Baseline, battery float64) model.SensorReading {
	return model.SensorReading{
		Timestamp:   time.Now().UTC(),
		FillLevel:   clamp(b.FillLevel+e.jitter(1), 0, 100),
		Weight:      math.Max(0, b.Weight+e.jitter(0.25)),
		Temperature: b.Temperature + e.jitter(0.5),
		Humidity:    clamp(b.Humidity+e.jitter(1.5), 0, 100),
		GasLevels: model.GasLevels{
			Methane:         math.Max(0, b.Methane+e.jitter(1)),
			Ammonia:         math.Max(0, b.Ammonia+e.jitter(1)),
			HydrogenSulfide: math.Max(0, b.HydrogenSulfide+e.jitter(0.5)),
		},
		BatteryLevel: clamp(battery, 0, 100),
	}
}

// Alerts recomputes the alert list for a bin from its current state. The
// list is rebuilt on every call, alerts carry no lifecycle of their own.
func (e *Engine) Alerts(binID string) ([]model.Alert, error) {
	bin, ok := e.store.Bin(binID)
	if !ok {
		return nil, ErrUnknownBin
	}

	methane := 0.0
	fill := float64(bin.FillLevel)
	if readings := e.store.SensorReadings(binID); len(readings) > 0 {
		latest := readings[len(readings)-1]
		methane = latest.GasLevels.Methane
		fill = latest.FillLevel
	}
	return computeAlerts(fill, bin.BatteryLevel, methane), nil
}

func computeAlerts(fill, battery, methane float64) []model.Alert {
	alerts := []model.Alert{}
	if fill >= 90 {
		alerts = append(alerts, model.Alert{Level: model.AlertLevelCritical, Message: "Bin is full - immediate collection required"})
	}
	if fill >= 75 {
		alerts = append(alerts, model.Alert{Level: model.AlertLevelWarning, Message: "Bin approaching capacity"})
	}
	if battery <= 20 {
		alerts = append(alerts, model.Alert{Level: model.AlertLevelWarning, Message: "Low battery level"})
	}
	if methane > 30 {
		alerts = append(alerts, model.Alert{Level: model.AlertLevelWarning, Message: "High methane levels detected"})
	}
	return alerts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
