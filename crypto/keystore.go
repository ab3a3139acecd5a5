package crypto

import (
	"errors"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// NodeKeystore is a directory-backed Ethereum v3 keystore holding the node's
// identity key. The daemon keeps exactly one account in it; the first open on
// a fresh directory creates the key.
type NodeKeystore struct {
	ks *keystore.KeyStore
}

// OpenKeystore opens the keystore directory, creating it with 0700
// permissions when missing.
func OpenKeystore(dir string) (*NodeKeystore, error) {
	if dir == "" {
		return nil, errors.New("crypto: empty keystore directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &NodeKeystore{
		ks: keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP),
	}, nil
}

// EnsureNodeKey returns the node identity key, generating and persisting one
// when the keystore is empty. An existing key is decrypted with the supplied
// passphrase.
func (k *NodeKeystore) EnsureNodeKey(passphrase string) (*PrivateKey, error) {
	if k == nil || k.ks == nil {
		return nil, errors.New("crypto: keystore not opened")
	}
	accounts := k.ks.Accounts()
	var path string
	if len(accounts) == 0 {
		account, err := k.ks.NewAccount(passphrase)
		if err != nil {
			return nil, err
		}
		path = account.URL.Path
	} else {
		path = accounts[0].URL.Path
	}
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decrypted, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PrivateKey: decrypted.PrivateKey}, nil
}
