package simulator

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ecosort/internal/config"
	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/store"
)

type manualTicker struct {
	ch chan time.Time
}

func (m manualTicker) C() <-chan time.Time { return m.ch }
func (m manualTicker) Stop()               {}

// newTestEngine returns an engine whose ticks never fire on their own and
// whose jitter is zero, so tests drive steps deterministically.
func newTestEngine(st *store.Store) *Engine {
	e := New(st, config.SimulatorConfig{Tick: time.Second, HistoryLimit: 20}, zerolog.Nop())
	e.newTicker = func(time.Duration) Ticker { return manualTicker{ch: make(chan time.Time)} }
	e.jitter = func(float64) float64 { return 0 }
	return e
}

func TestStartUnknownBin(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	err := e.Start("bin-999", DefaultBaseline())
	assert.ErrorIs(t, err, ErrUnknownBin)
}

func TestStartTwice(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	defer e.StopAll()

	require.NoError(t, e.Start("bin-001", DefaultBaseline()))
	assert.True(t, e.Running("bin-001"))
	assert.ErrorIs(t, e.Start("bin-001", DefaultBaseline()), ErrAlreadyRunning)
}

func TestStopIdleIsNoOp(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	e.Stop("bin-001")
	assert.False(t, e.Running("bin-001"))
}

func TestStopAfterStart(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	require.NoError(t, e.Start("bin-001", DefaultBaseline()))
	e.Stop("bin-001")
	assert.False(t, e.Running("bin-001"))
	// Stopping again stays a no-op.
	e.Stop("bin-001")
}

func TestReadingsKeepMostRecentWindow(t *testing.T) {
	st := store.NewSeeded(20)
	e := newTestEngine(st)
	defer e.StopAll()

	baseline := DefaultBaseline()
	require.NoError(t, e.Start("bin-001", baseline))

	for i := 1; i <= 25; i++ {
		baseline.FillLevel = float64(i)
		require.NoError(t, e.UpdateBaseline("bin-001", baseline))
		e.step("bin-001")
	}

	readings := st.SensorReadings("bin-001")
	require.Len(t, readings, 20)
	assert.Equal(t, 6.0, readings[0].FillLevel)
	assert.Equal(t, 25.0, readings[len(readings)-1].FillLevel)
	for i := 1; i < len(readings); i++ {
		assert.False(t, readings[i].Timestamp.Before(readings[i-1].Timestamp))
	}
}

func TestStepWritesDerivedStatus(t *testing.T) {
	tests := []struct {
		fill       float64
		wantFill   int
		wantStatus model.BinStatus
	}{
		{40, 40, model.BinStatusOK},
		{74.4, 74, model.BinStatusOK},
		{75, 75, model.BinStatusWarning},
		{89, 89, model.BinStatusWarning},
		{90, 90, model.BinStatusFull},
	}

	for _, tt := range tests {
		st := store.NewSeeded(20)
		e := newTestEngine(st)

		baseline := DefaultBaseline()
		baseline.FillLevel = tt.fill
		require.NoError(t, e.Start("bin-001", baseline))
		e.step("bin-001")
		e.StopAll()

		bin, ok := st.Bin("bin-001")
		require.True(t, ok)
		assert.Equal(t, tt.wantFill, bin.FillLevel, "fill %.1f", tt.fill)
		assert.Equal(t, tt.wantStatus, bin.Status, "fill %.1f", tt.fill)
	}
}

func TestBaselineCrossingIntoFull(t *testing.T) {
	st := store.NewSeeded(20)
	e := newTestEngine(st)
	defer e.StopAll()

	baseline := DefaultBaseline()
	baseline.FillLevel = 88
	require.NoError(t, e.Start("bin-001", baseline))
	e.step("bin-001")

	bin, _ := st.Bin("bin-001")
	assert.Equal(t, model.BinStatusWarning, bin.Status)

	baseline.FillLevel = 91
	require.NoError(t, e.UpdateBaseline("bin-001", baseline))
	e.step("bin-001")

	bin, _ = st.Bin("bin-001")
	assert.Equal(t, model.BinStatusFull, bin.Status)

	alerts, err := e.Alerts("bin-001")
	require.NoError(t, err)
	messages := alertMessages(alerts)
	assert.Contains(t, messages, "Bin is full - immediate collection required")
	assert.Contains(t, messages, "Bin approaching capacity")
}

func TestAlertsBatteryAndMethane(t *testing.T) {
	st := store.NewSeeded(20)
	e := newTestEngine(st)
	defer e.StopAll()

	battery := 15.0
	_, ok := st.UpdateBin("bin-002", model.BinPatch{BatteryLevel: &battery})
	require.True(t, ok)

	baseline := DefaultBaseline()
	baseline.FillLevel = 30
	baseline.Methane = 35
	require.NoError(t, e.Start("bin-002", baseline))
	e.step("bin-002")

	alerts, err := e.Alerts("bin-002")
	require.NoError(t, err)
	messages := alertMessages(alerts)
	assert.Contains(t, messages, "Low battery level")
	assert.Contains(t, messages, "High methane levels detected")
	assert.NotContains(t, messages, "Bin approaching capacity")
}

func TestAlertsWithoutReadingsUsesBinState(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))

	// bin-003 is seeded at fill 90, battery 45, no readings yet.
	alerts, err := e.Alerts("bin-003")
	require.NoError(t, err)

	levels := make([]model.AlertLevel, 0, len(alerts))
	for _, a := range alerts {
		levels = append(levels, a.Level)
	}
	assert.Contains(t, levels, model.AlertLevelCritical)
	assert.Contains(t, levels, model.AlertLevelWarning)
}

func TestAlertsUnknownBin(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	_, err := e.Alerts("bin-999")
	assert.ErrorIs(t, err, ErrUnknownBin)
}

func TestUpdateBaselineWhenIdle(t *testing.T) {
	e := newTestEngine(store.NewSeeded(20))
	err := e.UpdateBaseline("bin-001", DefaultBaseline())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestLoopConsumesTicks(t *testing.T) {
	st := store.NewSeeded(20)
	e := newTestEngine(st)

	tick := make(chan time.Time)
	e.newTicker = func(time.Duration) Ticker { return manualTicker{ch: tick} }

	events := make(chan TickEvent, 1)
	e.OnTick(func(ev TickEvent) {
		select {
		case events <- ev:
		default:
		}
	})

	require.NoError(t, e.Start("bin-001", DefaultBaseline()))
	tick <- time.Now()

	select {
	case ev := <-events:
		assert.Equal(t, "bin-001", ev.BinID)
		assert.Equal(t, ev.Bin.FillLevel, int(ev.Reading.FillLevel+0.5))
	case <-time.After(2 * time.Second):
		t.Fatal("no tick event received")
	}

	e.Stop("bin-001")
	assert.False(t, e.Running("bin-001"))
	require.Len(t, st.SensorReadings("bin-001"), 1)
}

func alertMessages(alerts []model.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Message)
	}
	return out
}
