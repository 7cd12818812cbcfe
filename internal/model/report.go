package model

import "time"

// FleetReport is the snapshot handed to the Excel and PDF generators.
type FleetReport struct {
	GeneratedAt     time.Time
	Bins            []Bin
	Classifications []ClassificationRecord
	Complaints      []Complaint
}

func (r FleetReport) CountByStatus(status BinStatus) int {
	count := 0
	for _, bin := range r.Bins {
		if bin.Status == status {
			count++
		}
	}
	return count
}
