package model

import "time"

type GasLevels struct {
	Methane         float64 `json:"methane"`
	Ammonia         float64 `json:"ammonia"`
	HydrogenSulfide float64 `json:"hydrogen_sulfide"`
}

type SensorReading struct {
	Timestamp    time.Time `json:"timestamp"`
	FillLevel    float64   `json:"fillLevel"`
	Weight       float64   `json:"weight"`
	Temperature  float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	GasLevels    GasLevels `json:"gasLevels"`
	BatteryLevel float64   `json:"batteryLevel"`
}

type AlertLevel string

const (
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
}
