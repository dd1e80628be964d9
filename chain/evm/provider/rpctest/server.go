// Package rpctest provides a minimal JSON-RPC node for tests that only need to dial a chain.
package rpctest

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewServer starts a JSON-RPC server answering eth_chainId with chainID and null for every other
// method. It is closed when the test ends.
func NewServer(t testing.TB, chainID uint64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result any
		if req.Method == "eth_chainId" {
			result = "0x" + new(big.Int).SetUint64(chainID).Text(16)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}
