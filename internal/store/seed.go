package store

import (
	"time"

	"github.com/nurpe/ecosort/internal/model"
)

func seedBins() []model.Bin {
	return []model.Bin{
		{
			ID:             "bin-001",
			Type:           model.WasteTypeWet,
			Location:       model.Location{Lat: 28.7041, Lng: 77.1025},
			Address:        "Block A, Sector 12, Delhi",
			FillLevel:      65,
			LastCollection: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			Status:         model.BinStatusWarning,
			BatteryLevel:   85,
		},
		{
			ID:             "bin-002",
			Type:           model.WasteTypeDry,
			Location:       model.Location{Lat: 28.7045, Lng: 77.1028},
			Address:        "Block B, Sector 12, Delhi",
			FillLevel:      30,
			LastCollection: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
			Status:         model.BinStatusOK,
			BatteryLevel:   92,
		},
		{
			ID:             "bin-003",
			Type:           model.WasteTypeHazardous,
			Location:       model.Location{Lat: 28.7038, Lng: 77.1022},
			Address:        "Block C, Sector 12, Delhi",
			FillLevel:      90,
			LastCollection: time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC),
			Status:         model.BinStatusFull,
			BatteryLevel:   45,
		},
	}
}
