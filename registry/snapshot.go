package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the registry as JSON to path, creating parent directories as needed.
func (r *Registry) Save(path string) error {
	r.mu.RLock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write registry to %s: %w", path, err)
	}

	return nil
}

// Load reads a registry previously written by Save. Duplicate names in the file are rejected
// with ErrDuplicateArtifact.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry from %s: %w", path, err)
	}

	var raw struct {
		ChainID uint64     `json:"chainId"`
		Records []Artifact `json:"records"`
	}
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry from %s: %w", path, err)
	}

	r := NewForChain(raw.ChainID)
	for _, a := range raw.Records {
		if err = r.RegisterArtifact(a); err != nil {
			return nil, fmt.Errorf("invalid registry %s: %w", path, err)
		}
	}

	return r, nil
}

// LoadForChain is like Load but fails with ErrChainMismatch unless the snapshot was written for
// chainID.
func LoadForChain(path string, chainID uint64) (*Registry, error) {
	r, err := Load(path)
	if err != nil {
		return nil, err
	}

	if r.ChainID != chainID {
		return nil, fmt.Errorf("%w: %s holds chain %d, expected chain %d", ErrChainMismatch, path, r.ChainID, chainID)
	}

	return r, nil
}
