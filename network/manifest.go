package network

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest holds per network overrides read from a YAML file:
//
//	networks:
//	  sepolia:
//	    endpoint: https://sepolia.example.org
//	    operatorIndex: 1
//	  custom:
//	    endpoint: http://10.0.0.2:8545
//	    chainId: 100
//	    subset: {kind: range, start: 0, end: 3}
type Manifest struct {
	Networks map[ID]Overrides `yaml:"networks"`
}

// LoadManifest reads the manifest at path. A missing file yields an empty manifest.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Manifest{}, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("read network manifest: %w", err)
	}

	return ParseManifest(data)
}

// ParseManifest parses manifest YAML. Unknown keys and networks are rejected.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("%w: parse network manifest: %w", ErrNetworkConfiguration, err)
	}

	for id, o := range m.Networks {
		if _, err := ParseID(string(id)); err != nil {
			return Manifest{}, err
		}
		if o.Subset != nil {
			if err := o.Subset.Validate(); err != nil {
				return Manifest{}, fmt.Errorf("network %s: %w", id, err)
			}
		}
	}

	return m, nil
}

// Select returns the profile id with the manifest overrides of id and then extra applied.
func (m Manifest) Select(id ID, extra Overrides) (Profile, error) {
	return Select(id, m.Networks[id].merge(extra))
}

// merge returns o with the non-zero fields of other applied on top.
func (o Overrides) merge(other Overrides) Overrides {
	if other.Endpoint != "" {
		o.Endpoint = other.Endpoint
	}
	if other.ChainID != 0 {
		o.ChainID = other.ChainID
	}
	if other.OperatorIndex != nil {
		o.OperatorIndex = other.OperatorIndex
	}
	if other.Subset != nil {
		o.Subset = other.Subset
	}
	if other.DeployTestTokens != nil {
		o.DeployTestTokens = other.DeployTestTokens
	}

	return o
}
