package model

import "time"

type WasteType string

const (
	WasteTypeWet       WasteType = "wet"
	WasteTypeDry       WasteType = "dry"
	WasteTypeHazardous WasteType = "hazardous"
)

type BinStatus string

const (
	BinStatusOK      BinStatus = "ok"
	BinStatusWarning BinStatus = "warning"
	BinStatusFull    BinStatus = "full"
	BinStatusOffline BinStatus = "offline"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bin struct {
	ID             string    `json:"id"`
	Type           WasteType `json:"type"`
	Location       Location  `json:"location"`
	Address        string    `json:"address"`
	FillLevel      int       `json:"fillLevel"`
	LastCollection time.Time `json:"lastCollection"`
	Status         BinStatus `json:"status"`
	BatteryLevel   float64   `json:"batteryLevel"`
}

// BinPatch is a partial bin update. Nil fields are left untouched.
type BinPatch struct {
	FillLevel      *int       `json:"fillLevel"`
	Status         *BinStatus `json:"status"`
	Address        *string    `json:"address"`
	LastCollection *time.Time `json:"lastCollection"`
	BatteryLevel   *float64   `json:"batteryLevel"`
}

// DeriveBinStatus maps a fill level to a bin status. Offline is never
// derived from fill level; it is set externally on connectivity loss.
func DeriveBinStatus(fillLevel float64) BinStatus {
	switch {
	case fillLevel >= 90:
		return BinStatusFull
	case fillLevel >= 75:
		return BinStatusWarning
	default:
		return BinStatusOK
	}
}
