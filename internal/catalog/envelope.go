package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the uniform result shape handed to the rest of the system after
// the boundary adapter has inspected the response.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
}

type paginatedEnvelope[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// decodePage normalizes the two shapes the catalog API responds with: a bare
// JSON array, or a paginated envelope carrying `results` and `count`.
func decodePage[T any](payload []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Page[T]{Items: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("decoding list response: %w", err)
		}
		return Page[T]{Items: items, TotalCount: len(items)}, nil
	}

	var envelope paginatedEnvelope[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Page[T]{}, fmt.Errorf("decoding paginated response: %w", err)
	}
	if envelope.Results == nil {
		envelope.Results = []T{}
	}
	count := envelope.Count
	if count == 0 {
		count = len(envelope.Results)
	}
	return Page[T]{Items: envelope.Results, TotalCount: count}, nil
}
