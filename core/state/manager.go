package state

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"quorum/core/types"
	"quorum/storage"
)

// Manager persists ledger state through the backing key-value store. Every
// record lives under a keccak256 hash of a module prefix plus the record
// identifier, keeping the key spaces of accounts, option records and escrow
// balances disjoint.
//
// Manager is not safe for concurrent use; the node serializes access.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager over the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func storageKey(prefix, id []byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(id))
	buf = append(buf, prefix...)
	buf = append(buf, id...)
	return ethcrypto.Keccak256(buf)
}

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

// GetAccount loads the account stored for addr. Unknown addresses resolve to
// a zero-balance account rather than an error.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	if m == nil || m.db == nil {
		return nil, fmt.Errorf("state: database not configured")
	}
	key := storageKey(accountRecordPrefix, addr)
	ok, err := m.db.Has(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	data, err := m.db.Get(key)
	if err != nil {
		return nil, err
	}
	stored := new(storedAccount)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, fmt.Errorf("state: corrupt account record: %w", err)
	}
	acc := &types.Account{Nonce: stored.Nonce, Balance: big.NewInt(0)}
	if stored.Balance != nil {
		acc.Balance = new(big.Int).Set(stored.Balance)
	}
	return acc, nil
}

func encodeAccount(account *types.Account) ([]byte, error) {
	if account == nil {
		return nil, fmt.Errorf("state: nil account")
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = new(big.Int).Set(account.Balance)
	}
	if balance.Sign() < 0 {
		return nil, fmt.Errorf("state: negative account balance")
	}
	return rlp.EncodeToBytes(&storedAccount{Nonce: account.Nonce, Balance: balance})
}

// PutAccount persists the account under addr. Negative balances are rejected.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("state: database not configured")
	}
	encoded, err := encodeAccount(account)
	if err != nil {
		return err
	}
	return m.db.Put(storageKey(accountRecordPrefix, addr), encoded)
}

// GenesisApplied reports whether the one-time genesis allocation has run.
func (m *Manager) GenesisApplied() (bool, error) {
	if m == nil || m.db == nil {
		return false, fmt.Errorf("state: database not configured")
	}
	return m.db.Has(storageKey(genesisAppliedKey, nil))
}

// MarkGenesisApplied records that the genesis allocation has run.
func (m *Manager) MarkGenesisApplied() error {
	if m == nil || m.db == nil {
		return fmt.Errorf("state: database not configured")
	}
	return m.db.Put(storageKey(genesisAppliedKey, nil), []byte{1})
}
