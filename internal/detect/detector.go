package detect

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/nurpe/ecosort/internal/model"
)

// CategoryInfo describes one waste stream per SWM Rules 2016.
type CategoryInfo struct {
	ID          model.WasteType `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Examples    []string        `json:"examples"`
	Handling    string          `json:"handling"`
}

var categoryOrder = []model.WasteType{model.WasteTypeWet, model.WasteTypeDry, model.WasteTypeHazardous}

var categories = map[model.WasteType]CategoryInfo{
	model.WasteTypeWet: {
		ID:          model.WasteTypeWet,
		Name:        "Wet Waste (Organic)",
		Description: "Biodegradable waste including food scraps, peels, garden waste",
		Examples:    []string{"kitchen scraps", "fruit peels", "vegetable waste", "garden trimmings"},
		Handling:    "Compost at home or designated composting facility",
	},
	model.WasteTypeDry: {
		ID:          model.WasteTypeDry,
		Name:        "Dry Waste (Recyclable)",
		Description: "Non-biodegradable recyclable materials",
		Examples:    []string{"paper", "plastic", "metal", "glass", "cardboard"},
		Handling:    "Clean and place in dry waste bin for recycling",
	},
	model.WasteTypeHazardous: {
		ID:          model.WasteTypeHazardous,
		Name:        "Domestic Hazardous Waste",
		Description: "Materials that can harm environment or health",
		Examples:    []string{"batteries", "medicines", "paint", "pesticides", "e-waste"},
		Handling:    "Collect separately for specialized disposal",
	},
}

type rule struct {
	keywords      []string
	category      model.WasteType
	subCategories []string
}

var rules = []rule{
	{[]string{"banana", "apple", "orange", "fruit", "peel", "food", "vegetable"}, model.WasteTypeWet, []string{"fruit peels", "food scraps", "vegetable waste"}},
	{[]string{"leaf", "grass", "garden", "plant", "flower"}, model.WasteTypeWet, []string{"garden waste", "plant matter"}},
	{[]string{"bottle", "plastic", "container", "bag"}, model.WasteTypeDry, []string{"plastic containers", "bottles"}},
	{[]string{"paper", "newspaper", "cardboard", "box"}, model.WasteTypeDry, []string{"paper waste", "cardboard"}},
	{[]string{"can", "metal", "aluminum", "steel"}, model.WasteTypeDry, []string{"metal containers"}},
	{[]string{"glass", "jar", "wine"}, model.WasteTypeDry, []string{"glass containers"}},
	{[]string{"battery", "cell", "lithium"}, model.WasteTypeHazardous, []string{"batteries"}},
	{[]string{"medicine", "pills", "tablet", "syringe"}, model.WasteTypeHazardous, []string{"medical waste"}},
	{[]string{"paint", "chemical", "cleaner"}, model.WasteTypeHazardous, []string{"chemicals"}},
	{[]string{"phone", "electronic", "computer", "wire"}, model.WasteTypeHazardous, []string{"e-waste"}},
}

var hazardousWarnings = []string{
	"Handle with care - potential safety hazard",
	"Use appropriate protective equipment",
	"Do not dispose in regular waste bins",
}

type Prediction struct {
	Category       model.WasteType `json:"category"`
	Confidence     float64         `json:"confidence"`
	SubCategory    string          `json:"subCategory,omitempty"`
	Suggestions    []string        `json:"suggestions"`
	SafetyWarnings []string        `json:"safetyWarnings,omitempty"`
}

// Detector is the offline stand-in for a real vision model: it matches
// filename keywords against a fixed category table.
type Detector struct {
	randFloat func() float64
}

func New() *Detector {
	return &Detector{randFloat: rand.Float64}
}

// Detect fabricates one or two predictions for the given filename. An
// empty filename (webcam capture) gets a random category.
func (d *Detector) Detect(filename string) []Prediction {
	category := model.WasteTypeWet
	subCategory := "food scraps"
	confidence := 0.85

	if filename != "" {
		lower := strings.ToLower(filename)
		for _, r := range rules {
			if matchesAny(lower, r.keywords) {
				category = r.category
				subCategory = r.subCategories[0]
				confidence = d.randFloat()*0.3 + 0.7
				break
			}
		}
	} else {
		category = categoryOrder[rand.Intn(len(categoryOrder))]
		subCategory = categories[category].Examples[0]
		confidence = d.randFloat()*0.4 + 0.6
	}

	info := categories[category]
	primary := Prediction{
		Category:    category,
		Confidence:  confidence,
		SubCategory: subCategory,
		Suggestions: []string{
			info.Handling,
			"Bin type: " + info.Name,
			fmt.Sprintf("Estimated weight: %.1fkg", d.randFloat()*2+0.5),
		},
	}
	if category == model.WasteTypeHazardous {
		primary.SafetyWarnings = hazardousWarnings
	}

	predictions := []Prediction{primary}
	if confidence < 0.9 {
		if alt, ok := firstOther(category); ok {
			altInfo := categories[alt]
			predictions = append(predictions, Prediction{
				Category:    alt,
				Confidence:  maxFloat(0.1, confidence-0.3),
				SubCategory: altInfo.Examples[0],
				Suggestions: []string{altInfo.Handling},
			})
		}
	}
	return predictions
}

// HandlingGuide returns the disposal checklist for a category.
func HandlingGuide(category model.WasteType) []string {
	info, ok := categories[category]
	if !ok {
		return nil
	}

	steps := map[model.WasteType][]string{
		model.WasteTypeWet: {
			"Remove any plastic packaging or non-organic materials",
			"Chop large items into smaller pieces for faster decomposition",
			"Consider home composting for garden use",
			"Keep separate from dry waste to prevent contamination",
		},
		model.WasteTypeDry: {
			"Clean containers and remove food residue",
			"Remove labels and caps when possible",
			"Flatten cardboard boxes to save space",
			"Separate different materials (plastic, paper, metal, glass)",
		},
		model.WasteTypeHazardous: {
			"Never mix with regular waste",
			"Store in original containers when possible",
			"Keep away from children and pets",
			"Use designated collection points for disposal",
			"Check with local authorities for proper disposal methods",
		},
	}
	return append([]string{info.Handling}, steps[category]...)
}

// Categories exposes the category table for the citizen portal.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryOrder))
	for _, id := range categoryOrder {
		out = append(out, categories[id])
	}
	return out
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func firstOther(category model.WasteType) (model.WasteType, bool) {
	for _, id := range categoryOrder {
		if id != category {
			return id, true
		}
	}
	return "", false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
