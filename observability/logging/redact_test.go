package logging

import "testing"

func TestMaskFieldRedactsCredentials(t *testing.T) {
	attr := MaskField("authorization", "Bearer super-secret")
	if attr.Value.String() != RedactedValue {
		t.Fatalf("credential leaked into log attr: %s", attr.Value.String())
	}
}

func TestMaskFieldKeepsAllowlistedKeys(t *testing.T) {
	attr := MaskField("method", "options_createOption")
	if attr.Value.String() != "options_createOption" {
		t.Fatalf("allowlisted key was masked: %s", attr.Value.String())
	}
}

func TestMaskFieldPassesEmptyValues(t *testing.T) {
	attr := MaskField("authorization", "")
	if attr.Value.String() != "" {
		t.Fatalf("empty value should pass through, got %s", attr.Value.String())
	}
}

func TestAllowlistStable(t *testing.T) {
	keys := RedactionAllowlist()
	if len(keys) == 0 {
		t.Fatal("allowlist must not be empty")
	}
	for _, key := range keys {
		if !IsAllowlisted(key) {
			t.Fatalf("key %q reported not allowlisted", key)
		}
	}
	if IsAllowlisted("authorization") {
		t.Fatal("authorization must never be allowlisted")
	}
}
