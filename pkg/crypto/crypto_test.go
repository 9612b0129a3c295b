package crypto

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	s, err := NewSessionSealer(key)
	if err != nil {
		t.Fatalf("NewSessionSealer: %v", err)
	}

	plaintext := []byte(`{"token":"abc123","user":{"id":1}}`)
	blob, err := s.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(blob, []byte("abc123")) {
		t.Error("sealed blob leaks plaintext")
	}

	got, err := s.Open(blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open() = %q, want %q", got, plaintext)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	s, _ := NewSessionSealer(bytes.Repeat([]byte{7}, 32))
	blob, err := s.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	blob[len(blob)-1] ^= 0xff
	if _, err := s.Open(blob); err != ErrDecryptionFailed {
		t.Errorf("Open(tampered) = %v, want ErrDecryptionFailed", err)
	}

	if _, err := s.Open([]byte("short")); err != ErrInvalidCiphertext {
		t.Errorf("Open(short) = %v, want ErrInvalidCiphertext", err)
	}
}

func TestOpenWrongKey(t *testing.T) {
	a, _ := NewSessionSealer(bytes.Repeat([]byte{1}, 32))
	b, _ := NewSessionSealer(bytes.Repeat([]byte{2}, 32))

	blob, err := a.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := b.Open(blob); err != ErrDecryptionFailed {
		t.Errorf("Open with wrong key = %v, want ErrDecryptionFailed", err)
	}
}

func TestNewSessionSealerKeySize(t *testing.T) {
	if _, err := NewSessionSealer([]byte("too short")); err == nil {
		t.Error("expected error for short key")
	}
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.key")

	key1, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey (create): %v", err)
	}
	if len(key1) != 32 {
		t.Fatalf("key length = %d, want 32", len(key1))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	key2, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey (load): %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("second load returned a different key")
	}

	if err := os.WriteFile(path, []byte("truncated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreateKey(path); err == nil {
		t.Error("expected error for corrupt key file")
	}
}
