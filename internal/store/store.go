package store

import (
	"sync"

	"github.com/nurpe/ecosort/internal/model"
)

// Store is the in-memory state shared by the HTTP layer and the simulator.
// All mutations go through the mutex so no partial update is ever visible.
type Store struct {
	mu           sync.RWMutex
	historyLimit int

	bins            []model.Bin
	readings        map[string][]model.SensorReading
	classifications []model.ClassificationRecord
	complaints      []model.Complaint
}

func New(historyLimit int) *Store {
	return &Store{
		historyLimit: historyLimit,
		readings:     make(map[string][]model.SensorReading),
	}
}

// NewSeeded returns a store preloaded with the demo bin fleet.
func NewSeeded(historyLimit int) *Store {
	s := New(historyLimit)
	s.bins = seedBins()
	return s
}

func (s *Store) Bins() []model.Bin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bin, len(s.bins))
	copy(out, s.bins)
	return out
}

func (s *Store) Bin(id string) (model.Bin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bin := range s.bins {
		if bin.ID == id {
			return bin, true
		}
	}
	return model.Bin{}, false
}

func (s *Store) UpdateBin(id string, patch model.BinPatch) (model.Bin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bins {
		if s.bins[i].ID != id {
			continue
		}
		if patch.FillLevel != nil {
			s.bins[i].FillLevel = *patch.FillLevel
		}
		if patch.Status != nil {
			s.bins[i].Status = *patch.Status
		}
		if patch.Address != nil {
			s.bins[i].Address = *patch.Address
		}
		if patch.LastCollection != nil {
			s.bins[i].LastCollection = *patch.LastCollection
		}
		if patch.BatteryLevel != nil {
			s.bins[i].BatteryLevel = *patch.BatteryLevel
		}
		return s.bins[i], true
	}
	return model.Bin{}, false
}

func (s *Store) SensorReadings(binID string) []model.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	readings := s.readings[binID]
	out := make([]model.SensorReading, len(readings))
	copy(out, readings)
	return out
}

// AppendReading adds a reading to the bin's ring buffer, evicting the
// oldest entry once the buffer exceeds the history limit. It returns a
// copy of the resulting buffer.
func (s *Store) AppendReading(binID string, reading model.SensorReading) []model.SensorReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	readings := append(s.readings[binID], reading)
	if len(readings) > s.historyLimit {
		readings = readings[len(readings)-s.historyLimit:]
	}
	s.readings[binID] = readings
	out := make([]model.SensorReading, len(readings))
	copy(out, readings)
	return out
}

func (s *Store) SetSensorReadings(binID string, readings []model.SensorReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(readings) > s.historyLimit {
		readings = readings[len(readings)-s.historyLimit:]
	}
	buf := make([]model.SensorReading, len(readings))
	copy(buf, readings)
	s.readings[binID] = buf
}

func (s *Store) Classifications() []model.ClassificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ClassificationRecord, len(s.classifications))
	copy(out, s.classifications)
	return out
}

// AddClassification prepends, newest first, matching how the dashboard
// renders its history.
func (s *Store) AddClassification(record model.ClassificationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifications = append([]model.ClassificationRecord{record}, s.classifications...)
}

func (s *Store) Complaints() []model.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Complaint, len(s.complaints))
	copy(out, s.complaints)
	return out
}

func (s *Store) AddComplaint(complaint model.Complaint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints = append(s.complaints, complaint)
}

func (s *Store) UpdateComplaint(id string, patch model.ComplaintPatch) (model.Complaint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.complaints {
		if s.complaints[i].ID != id {
			continue
		}
		if patch.Status != nil {
			s.complaints[i].Status = *patch.Status
		}
		if patch.Description != nil {
			s.complaints[i].Description = *patch.Description
		}
		return s.complaints[i], true
	}
	return model.Complaint{}, false
}

// Snapshot is the persistence allowlist: bins, classifications and
// complaints survive restarts, sensor readings are transient.
type Snapshot struct {
	Bins            []model.Bin
	Classifications []model.ClassificationRecord
	Complaints      []model.Complaint
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Bins:            make([]model.Bin, len(s.bins)),
		Classifications: make([]model.ClassificationRecord, len(s.classifications)),
		Complaints:      make([]model.Complaint, len(s.complaints)),
	}
	copy(snap.Bins, s.bins)
	copy(snap.Classifications, s.classifications)
	copy(snap.Complaints, s.complaints)
	return snap
}

func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(snap.Bins) > 0 {
		s.bins = make([]model.Bin, len(snap.Bins))
		copy(s.bins, snap.Bins)
	}
	s.classifications = make([]model.ClassificationRecord, len(snap.Classifications))
	copy(s.classifications, snap.Classifications)
	s.complaints = make([]model.Complaint, len(snap.Complaints))
	copy(s.complaints, snap.Complaints)
}
