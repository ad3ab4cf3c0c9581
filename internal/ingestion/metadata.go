package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Document formats recognized by the loaders.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Metadata describes an ingested source document.
type Metadata struct {
	Source    string `json:"source"` // file path or URL
	FileName  string `json:"file_name"`
	Format    string `json:"format"`
	Site      string `json:"site,omitempty"` // detected disclosure site family for URLs
	PageCount int    `json:"page_count"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw content
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content []byte, source, fileName, format string, pageCount int) *Metadata {
	return &Metadata{
		Source:    source,
		FileName:  fileName,
		Format:    format,
		PageCount: pageCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
