package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one asset in the output manifest.
type ManifestEntry struct {
	Source  string `json:"source"`
	Output  string `json:"output,omitempty"`
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json, creating its directory when a run
// produced no output at all.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source:  r.Source,
			Output:  r.Output,
			Type:    r.Type.String(),
			Key:     r.Key,
			Success: r.Success,
			Error:   r.Error,
		}
		if !r.Success {
			entries[i].Output = ""
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Keys returns the distinct keys seen across results, in first-seen order.
func Keys(results []Result) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range results {
		if r.Key == "" || seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		keys = append(keys, r.Key)
	}
	return keys
}
