package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadVector reads a biometric vector from a JSON file containing a flat
// array of numbers, e.g. [0.12, -0.03, ...]. The extractor that produces
// such files is outside vaultctl's scope.
func LoadVector(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vector file: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("parse vector file: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector file %s is empty", path)
	}
	return vector, nil
}
