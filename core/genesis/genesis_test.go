package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"quorum/crypto"
)

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write genesis: %v", err)
	}
	return path
}

func TestLoadAndResolveBalances(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	path := writeSpec(t, `{"networkName":"quorum-test","alloc":{"`+addr.String()+`":"1000000"}}`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.NetworkName != "quorum-test" {
		t.Fatalf("unexpected network name %q", spec.NetworkName)
	}
	balances, err := spec.Balances()
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	var want [20]byte
	copy(want[:], addr.Bytes())
	got, ok := balances[want]
	if !ok {
		t.Fatalf("allocation missing for %s", addr)
	}
	if got.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("unexpected amount %s", got)
	}
}

func TestBalancesRejectsMalformedEntries(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address().String()

	cases := map[string]string{
		"bad address":     `{"alloc":{"nhb1qqqqqqqq":"10"}}`,
		"zero amount":     `{"alloc":{"` + addr + `":"0"}}`,
		"negative amount": `{"alloc":{"` + addr + `":"-5"}}`,
		"non-decimal":     `{"alloc":{"` + addr + `":"ten"}}`,
	}
	for name, contents := range cases {
		spec, err := Load(writeSpec(t, contents))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if _, err := spec.Balances(); err == nil {
			t.Fatalf("%s: expected resolution error", name)
		}
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	if _, err := Load(writeSpec(t, "not-json")); err == nil {
		t.Fatal("expected parse error")
	}
}
