package operations

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
)

// constructUniqueHashFrom returns a sha256 hash of the definition and input. Both are normalised
// to canonical JSON first, so a typed input and the same input loaded back from a report file
// hash identically.
func constructUniqueHashFrom(cache *sync.Map, def Definition, input any) (string, error) {
	payload, err := canonicalJSON(struct {
		Def   Definition `json:"definition"`
		Input any        `json:"input"`
	}{def, input})
	if err != nil {
		return "", err
	}

	key := string(payload)
	if cache != nil {
		if h, ok := cache.Load(key); ok {
			return h.(string), nil
		}
	}

	sum := sha256.Sum256(payload)
	h := hex.EncodeToString(sum[:])
	if cache != nil {
		cache.Store(key, h)
	}

	return h, nil
}

// canonicalJSON marshals v with object keys sorted and numbers kept verbatim.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err = dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return json.Marshal(generic)
}
