package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogSchema is the top-level JSON structure for a mission catalogue.
type CatalogSchema struct {
	Defaults *DefaultsImport `json:"defaults,omitempty"`
	Missions []MissionImport `json:"missions"`
}

// DefaultsImport defines catalogue-wide defaults that cascade to missions.
type DefaultsImport struct {
	XPReward          *int `json:"xp_reward,omitempty"`
	EstimatedDuration *int `json:"estimated_duration,omitempty"`
}

// MissionImport defines one mission in the catalogue. ID is optional; when
// set, re-importing the file updates the mission in place.
type MissionImport struct {
	ID                string       `json:"id,omitempty"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Category          string       `json:"category"`
	EstimatedDuration *int         `json:"estimated_duration,omitempty"`
	XPReward          *int         `json:"xp_reward,omitempty"`
	TargetCrops       []string     `json:"target_crops,omitempty"`
	Active            *bool        `json:"active,omitempty"`
	Cards             []CardImport `json:"cards"`
}

// CardImport defines a content card inside a mission.
type CardImport struct {
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"image_url,omitempty"`
	QuizOptions   []string `json:"quiz_options,omitempty"`
	CorrectOption *int     `json:"correct_option,omitempty"`
}

// LoadCatalogSchema reads and parses a mission catalogue JSON file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogSchema(data)
}

// ParseCatalogSchema parses catalogue JSON from memory.
func ParseCatalogSchema(data []byte) (*CatalogSchema, error) {
	var schema CatalogSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalogue file: %w", err)
	}
	return &schema, nil
}
