package render

import (
	"encoding/json"
	"fmt"

	"reader-helper/internal/models"
)

// JSONRenderer writes the result as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(result models.ExtractionResult) ([]byte, error) {
	if result.Blocks == nil {
		result.Blocks = []models.ContentBlock{}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func (r *JSONRenderer) ContentType() string {
	return "application/json"
}
