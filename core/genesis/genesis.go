package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"quorum/crypto"
)

// Spec describes the one-time account allocation applied when a fresh data
// directory is initialised. Amounts are decimal strings in the ledger's base
// unit.
type Spec struct {
	NetworkName string            `json:"networkName,omitempty"`
	Alloc       map[string]string `json:"alloc"`
}

// Load reads and parses a genesis spec from disk.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec := &Spec{}
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("genesis: invalid spec %s: %w", path, err)
	}
	return spec, nil
}

// Balances resolves the allocation into address/amount pairs. Every entry
// must carry a valid bech32 address and a positive decimal amount.
func (s *Spec) Balances() (map[[20]byte]*big.Int, error) {
	if s == nil {
		return nil, fmt.Errorf("genesis: nil spec")
	}
	out := make(map[[20]byte]*big.Int, len(s.Alloc))
	for bech, raw := range s.Alloc {
		addr, err := crypto.DecodeAddress(strings.TrimSpace(bech))
		if err != nil {
			return nil, fmt.Errorf("genesis: invalid address %q: %w", bech, err)
		}
		amount, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
		if !ok || amount.Sign() <= 0 {
			return nil, fmt.Errorf("genesis: invalid amount %q for %s", raw, bech)
		}
		var key [20]byte
		copy(key[:], addr.Bytes())
		out[key] = amount
	}
	return out, nil
}
