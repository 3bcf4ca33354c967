package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "devices.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadProfilesValid(t *testing.T) {
	path := writeTemp(t, `
devices:
  - name: bench-sst
    port: /dev/ttyUSB0
    baud: 921600
    chip: SST27SF512
    blockSize: 256
    trace:
      addressBytes: 2
      addrsPerPacket: 4
      packetsPerTrace: 2
`)
	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := profiles.Get("bench-sst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Chip != "SST27SF512" || p.Trace.AddressBytes != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadProfilesUnknownChip(t *testing.T) {
	path := writeTemp(t, "devices:\n  - name: bad\n    chip: NOPE\n")
	if _, err := LoadProfiles(path); err == nil {
		t.Fatal("expected error for unknown chip family")
	}
}

func TestLoadProfilesBadBaud(t *testing.T) {
	path := writeTemp(t, "devices:\n  - name: bad\n    baud: 9600\n")
	if _, err := LoadProfiles(path); err == nil {
		t.Fatal("expected error for unsupported baud")
	}
}

func TestGetMissing(t *testing.T) {
	path := writeTemp(t, "devices: []\n")
	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := profiles.Get("missing"); err == nil {
		t.Fatal("expected error for missing profile")
	}
}
