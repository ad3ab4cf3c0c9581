package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	content := []byte("We will open a new plant.")
	metadata := NewMetadata(content, "/tmp/letter.txt", "letter.txt", FormatText, 1)

	assert.Equal(t, "/tmp/letter.txt", metadata.Source)
	assert.Equal(t, "letter.txt", metadata.FileName)
	assert.Equal(t, FormatText, metadata.Format)
	assert.Equal(t, 1, metadata.PageCount)
	assert.Len(t, metadata.Hash, 64)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestNewMetadata_HashIsContentAddressed(t *testing.T) {
	a := NewMetadata([]byte("same"), "a.txt", "a.txt", FormatText, 1)
	b := NewMetadata([]byte("same"), "b.txt", "b.txt", FormatText, 1)
	c := NewMetadata([]byte("different"), "a.txt", "a.txt", FormatText, 1)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestMetadata_ToJSON(t *testing.T) {
	metadata := &Metadata{
		Source:    "https://www.sec.gov/Archives/10k.htm",
		FileName:  "10k.htm",
		Format:    FormatHTML,
		Site:      "edgar",
		PageCount: 3,
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "edgar", decoded["site"])
	assert.Equal(t, "10k.htm", decoded["file_name"])
	assert.EqualValues(t, 3, decoded["page_count"])

	var roundTrip Metadata
	require.NoError(t, json.Unmarshal(jsonBytes, &roundTrip))
	assert.Equal(t, *metadata, roundTrip)
}

func TestMetadata_ToJSON_OmitsEmptySite(t *testing.T) {
	metadata := NewMetadata([]byte("x"), "x.txt", "x.txt", FormatText, 1)
	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), `"site"`)
}
