package store

import "time"

// Dataset is a persisted, named tabular payload produced by ingestion. It is
// immutable once created; rowCount and fileSize are display strings frozen at
// creation time.
type Dataset struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Data      []map[string]any `json:"data"`
	Columns   []string         `json:"columns"`
	RowCount  string           `json:"rowCount"`
	FileSize  string           `json:"fileSize"`
	CreatedAt time.Time        `json:"createdAt"`
}

// InsertDataset is the caller-supplied portion of a Dataset; the store
// assigns ID and CreatedAt.
type InsertDataset struct {
	Name     string           `json:"name"`
	Data     []map[string]any `json:"data"`
	Columns  []string         `json:"columns"`
	RowCount string           `json:"rowCount"`
	FileSize string           `json:"fileSize"`
}

// Insight is an AI-generated observation about a dataset. Confidence is an
// integer-percentage string. The dataset reference is non-owning: deleting a
// dataset does not cascade to its insights.
type Insight struct {
	ID         string    `json:"id"`
	DatasetID  string    `json:"datasetId"`
	Content    string    `json:"content"`
	Confidence string    `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

type InsertInsight struct {
	DatasetID  string `json:"datasetId"`
	Content    string `json:"content"`
	Confidence string `json:"confidence"`
}

// Share exposes a dataset through an opaque token, optionally password
// protected. Never mutated after creation.
type Share struct {
	ID              string    `json:"id"`
	DatasetID       string    `json:"datasetId"`
	ShareToken      string    `json:"shareToken"`
	AllowDownloads  bool      `json:"allowDownloads"`
	RequirePassword bool      `json:"requirePassword"`
	Password        string    `json:"password,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type InsertShare struct {
	DatasetID       string `json:"datasetId"`
	AllowDownloads  bool   `json:"allowDownloads"`
	RequirePassword bool   `json:"requirePassword"`
	Password        string `json:"password,omitempty"`
}
