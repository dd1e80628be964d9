package evm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrUnlinkedLibrary is returned when bytecode still contains a library placeholder after linking.
var ErrUnlinkedLibrary = errors.New("bytecode references an unlinked library")

// ContractArtifact is a compiled contract as emitted by truffle or forge: its ABI and creation
// bytecode, which may still contain library placeholders.
type ContractArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     Bytecode        `json:"bytecode"`
}

// Bytecode is the hex encoded creation code of a contract. Truffle writes it as a plain string
// while forge nests it under an "object" key; both forms are accepted.
type Bytecode struct {
	Object string `json:"object"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytecode) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &b.Object)
	}

	type plain Bytecode

	return json.Unmarshal(data, (*plain)(b))
}

// ParsedABI parses the artifact ABI.
func (a *ContractArtifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse ABI of %s: %w", a.ContractName, err)
	}

	return parsed, nil
}

// LinkedBytecode substitutes the address of every library in libraries for its placeholder and
// returns the decoded bytecode. Any placeholder left afterwards fails with ErrUnlinkedLibrary.
func (a *ContractArtifact) LinkedBytecode(libraries map[string]common.Address) ([]byte, error) {
	code := strings.TrimPrefix(a.Bytecode.Object, "0x")
	if code == "" {
		return nil, fmt.Errorf("artifact %s has no bytecode, is it abstract?", a.ContractName)
	}

	for name, addr := range libraries {
		code = strings.ReplaceAll(code, LibraryPlaceholder(name), strings.ToLower(addr.Hex()[2:]))
	}

	if i := strings.Index(code, "__"); i != -1 {
		end := min(i+40, len(code))
		return nil, fmt.Errorf("%s: %w %q", a.ContractName, ErrUnlinkedLibrary, code[i:end])
	}

	decoded, err := hexutil.Decode("0x" + code)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode of %s: %w", a.ContractName, err)
	}

	return decoded, nil
}

// LibraryPlaceholder returns the 40 character placeholder the solidity compiler leaves in
// bytecode for an unlinked library: two underscores, the library name truncated to 36
// characters, padded with underscores.
func LibraryPlaceholder(name string) string {
	p := "__" + name
	if len(p) > 38 {
		p = p[:38]
	}

	return p + strings.Repeat("_", 40-len(p))
}

// ArtifactSource provides contract artifacts by contract name.
type ArtifactSource interface {
	Artifact(contract string) (*ContractArtifact, error)
}

// DirArtifacts loads artifacts from a build directory containing one <Contract>.json file per
// contract, such as truffle's build/contracts. Loaded artifacts are cached.
type DirArtifacts struct {
	dir string

	mu    sync.Mutex
	cache map[string]*ContractArtifact
}

var _ ArtifactSource = (*DirArtifacts)(nil)

// NewDirArtifacts creates a DirArtifacts reading from dir.
func NewDirArtifacts(dir string) *DirArtifacts {
	return &DirArtifacts{
		dir:   dir,
		cache: make(map[string]*ContractArtifact),
	}
}

// Artifact returns the artifact of contract.
func (d *DirArtifacts) Artifact(contract string) (*ContractArtifact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a, ok := d.cache[contract]; ok {
		return a, nil
	}

	data, err := os.ReadFile(filepath.Join(d.dir, contract+".json"))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", contract, err)
	}

	var a ContractArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact %s: %w", contract, err)
	}
	if a.ContractName == "" {
		a.ContractName = contract
	}

	d.cache[contract] = &a

	return &a, nil
}
