package memory

import (
	"bytes"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t, 0)
	mustAdd(t, src, CategoryGoal, "ship the new onboarding flow")
	mustAdd(t, src, CategoryDecision, "write every morning before work")

	var buf bytes.Buffer
	if err := ExportJSON(src, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestStore(t, 0)
	n, err := ImportJSON(dst, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d entries, want 2", n)
	}
	all, _ := dst.List()
	if len(all) != 2 {
		t.Errorf("destination has %d entries, want 2", len(all))
	}
}

func TestExportEncryptedRoundTrip(t *testing.T) {
	src := newTestStore(t, 0)
	mustAdd(t, src, CategoryInsight, "consistency beats intensity")

	var buf bytes.Buffer
	if err := ExportEncrypted(src, &buf, "correct horse"); err != nil {
		t.Fatalf("encrypted export: %v", err)
	}
	data := buf.Bytes()
	if bytes.Contains(data, []byte("consistency beats intensity")) {
		t.Error("plaintext leaked into encrypted export")
	}

	dst := newTestStore(t, 0)
	if _, err := ImportEncrypted(dst, bytes.NewReader(data), "wrong passphrase"); err == nil {
		t.Error("expected decryption failure with wrong passphrase")
	}

	dst2 := newTestStore(t, 0)
	n, err := ImportEncrypted(dst2, bytes.NewReader(data), "correct horse")
	if err != nil {
		t.Fatalf("encrypted import: %v", err)
	}
	if n != 1 {
		t.Errorf("imported %d entries, want 1", n)
	}
}
