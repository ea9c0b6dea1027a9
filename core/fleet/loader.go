package fleet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetops/core/model"
)

// LoadSnapshot reads a fleet snapshot from a JSON or YAML file.
func LoadSnapshot(path string) (model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	snap, err := DecodeSnapshot(f, ext)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return snap, nil
}

// DecodeSnapshot decodes a snapshot in the given format (yaml or json) and
// checks every mission is well formed.
func DecodeSnapshot(r io.Reader, format string) (model.Snapshot, error) {
	var snap model.Snapshot
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil && err != io.EOF {
			return snap, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return snap, err
		}
	default:
		return snap, fmt.Errorf("unsupported format: %s", format)
	}
	for _, m := range snap.Missions {
		if err := m.Validate(); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// DecodeDraft decodes a mission draft in the given format.
func DecodeDraft(r io.Reader, format string) (model.MissionDraft, error) {
	var d model.MissionDraft
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err := yaml.NewDecoder(r).Decode(&d)
		return d, err
	case "json":
		err := json.NewDecoder(r).Decode(&d)
		return d, err
	}
	return d, fmt.Errorf("unsupported format: %s", format)
}

// LoadDraft reads a mission draft from a JSON or YAML file.
func LoadDraft(path string) (model.MissionDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.MissionDraft{}, err
	}
	defer f.Close()
	d, err := DecodeDraft(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return model.MissionDraft{}, fmt.Errorf("load draft %s: %w", path, err)
	}
	return d, nil
}
