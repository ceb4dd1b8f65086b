package liststore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/grahmind/careers-waitlist/internal/models"
)

type latestResponse struct {
	Record json.RawMessage `json:"record"`
}

type wrappedDocument struct {
	Emails json.RawMessage `json:"emails"`
}

// decodeLatest decodes the body of a GET .../latest response.
func decodeLatest(body []byte) (Snapshot, error) {
	var resp latestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Snapshot{}, fmt.Errorf("decode latest response: %w", err)
	}
	return decodeDocument(resp.Record), nil
}

// decodeDocument classifies the stored document by its JSON kind alone: any
// array, or an object holding an array under "emails", yields records.
// Elements are decoded one by one and none is ever dropped.
func decodeDocument(raw json.RawMessage) Snapshot {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			if records, ok := decodeRecords(trimmed); ok {
				return Snapshot{Shape: ShapeArray, Records: records}
			}
		case '{':
			var doc wrappedDocument
			if err := json.Unmarshal(trimmed, &doc); err == nil {
				if records, ok := decodeRecords(bytes.TrimSpace(doc.Emails)); ok {
					return Snapshot{Shape: ShapeWrapped, Records: records}
				}
			}
		}
	}

	return Snapshot{Shape: ShapeUnknown, Records: []models.WaitlistRecord{}}
}

func decodeRecords(raw []byte) ([]models.WaitlistRecord, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}

	records := make([]models.WaitlistRecord, len(elements))
	for i, element := range elements {
		if err := records[i].UnmarshalJSON(element); err != nil {
			return nil, false
		}
	}
	return records, true
}
