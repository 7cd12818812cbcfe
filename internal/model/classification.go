package model

import "time"

type WasteCategory string

const (
	CategoryOrganic   WasteCategory = "Organic"
	CategoryInorganic WasteCategory = "Inorganic"
	CategoryHazardous WasteCategory = "Hazardous"
)

func (c WasteCategory) Valid() bool {
	switch c {
	case CategoryOrganic, CategoryInorganic, CategoryHazardous:
		return true
	}
	return false
}

type ClassificationResult struct {
	Category   WasteCategory `json:"category"`
	Confidence float64       `json:"confidence"`
	Tips       string        `json:"tips"`
	Reasoning  string        `json:"reasoning"`
}

type ClassificationRecord struct {
	ID        string               `json:"id"`
	Result    ClassificationResult `json:"result"`
	Source    string               `json:"source"`
	Timestamp time.Time            `json:"timestamp"`
	Verified  bool                 `json:"verified"`
}
