package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/store"
)

// SnapshotRepository persists the store's allowlisted subset (bins,
// classifications, complaints) across restarts. Sensor readings are
// deliberately not persisted.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type binRow struct {
	ID             string `gorm:"primaryKey"`
	Type           string
	Lat            float64
	Lng            float64
	Address        string
	FillLevel      int
	LastCollection time.Time
	Status         string
	BatteryLevel   float64
}

func (binRow) TableName() string { return "bins" }

type classificationRow struct {
	ID         string `gorm:"primaryKey"`
	Category   string
	Confidence float64
	Tips       string
	Reasoning  string
	Source     string
	RecordedAt time.Time
	Verified   bool
}

func (classificationRow) TableName() string { return "classifications" }

type complaintRow struct {
	ID          string `gorm:"primaryKey"`
	BinID       string
	Category    string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (complaintRow) TableName() string { return "complaints" }

// Save replaces the persisted snapshot wholesale. Demo-scale data, one
// transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snap store.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"bins", "classifications", "complaints"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		if len(snap.Bins) > 0 {
			rows := make([]binRow, 0, len(snap.Bins))
			for _, bin := range snap.Bins {
				rows = append(rows, binRow{
					ID:             bin.ID,
					Type:           string(bin.Type),
					Lat:            bin.Location.Lat,
					Lng:            bin.Location.Lng,
					Address:        bin.Address,
					FillLevel:      bin.FillLevel,
					LastCollection: bin.LastCollection,
					Status:         string(bin.Status),
					BatteryLevel:   bin.BatteryLevel,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if len(snap.Classifications) > 0 {
			rows := make([]classificationRow, 0, len(snap.Classifications))
			for _, record := range snap.Classifications {
				rows = append(rows, classificationRow{
					ID:         record.ID,
					Category:   string(record.Result.Category),
					Confidence: record.Result.Confidence,
					Tips:       record.Result.Tips,
					Reasoning:  record.Result.Reasoning,
					Source:     record.Source,
					RecordedAt: record.Timestamp,
					Verified:   record.Verified,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if len(snap.Complaints) > 0 {
			rows := make([]complaintRow, 0, len(snap.Complaints))
			for _, complaint := range snap.Complaints {
				rows = append(rows, complaintRow{
					ID:          complaint.ID,
					BinID:       complaint.BinID,
					Category:    complaint.Category,
					Description: complaint.Description,
					Status:      string(complaint.Status),
					CreatedAt:   complaint.CreatedAt,
					UpdatedAt:   complaint.UpdatedAt,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *SnapshotRepository) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	var bins []binRow
	if err := r.db.WithContext(ctx).Order("id").Find(&bins).Error; err != nil {
		return snap, err
	}
	for _, row := range bins {
		snap.Bins = append(snap.Bins, model.Bin{
			ID:             row.ID,
			Type:           model.WasteType(row.Type),
			Location:       model.Location{Lat: row.Lat, Lng: row.Lng},
			Address:        row.Address,
			FillLevel:      row.FillLevel,
			LastCollection: row.LastCollection,
			Status:         model.BinStatus(row.Status),
			BatteryLevel:   row.BatteryLevel,
		})
	}

	var classifications []classificationRow
	if err := r.db.WithContext(ctx).Order("recorded_at DESC").Find(&classifications).Error; err != nil {
		return snap, err
	}
	for _, row := range classifications {
		snap.Classifications = append(snap.Classifications, model.ClassificationRecord{
			ID: row.ID,
			Result: model.ClassificationResult{
				Category:   model.WasteCategory(row.Category),
				Confidence: row.Confidence,
				Tips:       row.Tips,
				Reasoning:  row.Reasoning,
			},
			Source:    row.Source,
			Timestamp: row.RecordedAt,
			Verified:  row.Verified,
		})
	}

	var complaints []complaintRow
	if err := r.db.WithContext(ctx).Order("created_at").Find(&complaints).Error; err != nil {
		return snap, err
	}
	for _, row := range complaints {
		snap.Complaints = append(snap.Complaints, model.Complaint{
			ID:          row.ID,
			BinID:       row.BinID,
			Category:    row.Category,
			Description: row.Description,
			Status:      model.ComplaintStatus(row.Status),
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}

	return snap, nil
}
