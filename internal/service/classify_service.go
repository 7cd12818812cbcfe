package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/provider"
	"github.com/nurpe/ecosort/internal/store"
)

const classifySystemPrompt = `You are an expert waste management AI assistant. Analyze waste item images and classify them into one of these categories:
- Organic: Food scraps, biodegradable materials, garden waste
- Inorganic: Recyclable materials like plastic, glass, metal, paper, cardboard
- Hazardous: Toxic, dangerous, electronic waste, batteries, chemicals

Always respond in this exact JSON format:
{
  "category": "Organic|Inorganic|Hazardous",
  "confidence": 0.95,
  "tips": "Brief disposal tip (max 100 characters)",
  "reasoning": "Brief explanation why you classified it this way (max 150 characters)"
}`

const classifyUserPrompt = "Please analyze this waste item and classify it according to the categories provided. Return only the JSON response."

var dataURIPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// parseFallback is returned when the provider answered but the payload
// could not be parsed into the expected shape.
func parseFallback() model.ClassificationResult {
	return model.ClassificationResult{
		Category:   model.CategoryInorganic,
		Confidence: 0.7,
		Tips:       "Please check local disposal guidelines.",
		Reasoning:  "Unable to parse detailed classification.",
	}
}

// degradedFallback is returned when the provider could not be reached at
// all, or no credential is configured.
func degradedFallback() model.ClassificationResult {
	return model.ClassificationResult{
		Category:   model.CategoryInorganic,
		Confidence: 0.5,
		Tips:       "Classification temporarily unavailable.",
		Reasoning:  "Service error occurred.",
	}
}

type ClassifyInput struct {
	ImageBase64 string
	Text        string
}

type ClassifyService struct {
	client *provider.Client
	store  *store.Store
	model  string
	log    zerolog.Logger
}

func NewClassifyService(client *provider.Client, st *store.Store, modelName string, log zerolog.Logger) *ClassifyService {
	return &ClassifyService{client: client, store: st, model: modelName, log: log}
}

// Classify forwards the item to the inference provider and validates the
// reply. The returned result is always populated: every failure path
// collapses to a fallback value. A non-nil error marks the degraded
// transport/configuration path only.
func (s *ClassifyService) Classify(ctx context.Context, input ClassifyInput) (model.ClassificationResult, error) {
	result, err := s.classify(ctx, input)
	s.record(input, result)
	return result, err
}

func (s *ClassifyService) classify(ctx context.Context, input ClassifyInput) (model.ClassificationResult, error) {
	if !s.client.Configured() {
		return degradedFallback(), fmt.Errorf("%w: API key not configured", ErrDegraded)
	}

	reply, err := s.client.Complete(ctx, provider.ChatRequest{
		Model:       s.model,
		Messages:    buildClassifyMessages(input),
		MaxTokens:   300,
		Temperature: 0.1,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("classification request failed")
		return degradedFallback(), fmt.Errorf("%w: %v", ErrDegraded, err)
	}

	result, err := parseClassification(reply)
	if err != nil {
		s.log.Warn().Err(err).Str("reply", reply).Msg("unparseable classification reply")
		return parseFallback(), nil
	}
	return result, nil
}

func buildClassifyMessages(input ClassifyInput) []provider.Message {
	parts := []provider.ContentPart{{Type: "text", Text: classifyUserPrompt}}
	if input.Text != "" {
		parts = append(parts, provider.ContentPart{Type: "text", Text: "Item description: " + input.Text})
	}
	if input.ImageBase64 != "" {
		raw := dataURIPrefix.ReplaceAllString(input.ImageBase64, "")
		parts = append(parts, provider.ContentPart{
			Type:     "image_url",
			ImageURL: &provider.ImageURL{URL: "data:image/jpeg;base64," + raw},
		})
	}

	return []provider.Message{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: parts},
	}
}

// parseClassification is strict: the reply must be JSON carrying all four
// fields with the right types and a known category. Confidence is passed
// through as-is, without clamping.
func parseClassification(reply string) (model.ClassificationResult, error) {
	var raw struct {
		Category   *model.WasteCategory `json:"category"`
		Confidence *float64             `json:"confidence"`
		Tips       *string              `json:"tips"`
		Reasoning  *string              `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.Category == nil || raw.Confidence == nil || raw.Tips == nil || raw.Reasoning == nil {
		return model.ClassificationResult{}, fmt.Errorf("missing required fields")
	}
	if !raw.Category.Valid() {
		return model.ClassificationResult{}, fmt.Errorf("unknown category %q", *raw.Category)
	}
	return model.ClassificationResult{
		Category:   *raw.Category,
		Confidence: *raw.Confidence,
		Tips:       *raw.Tips,
		Reasoning:  *raw.Reasoning,
	}, nil
}

func (s *ClassifyService) record(input ClassifyInput, result model.ClassificationResult) {
	source := "image"
	if input.ImageBase64 == "" {
		source = "text"
	}
	s.store.AddClassification(model.ClassificationRecord{
		ID:        uuid.New().String(),
		Result:    result,
		Source:    source,
		Timestamp: time.Now().UTC(),
	})
}
