// Package config decodes host-side device/session profiles from a YAML
// document of named profiles. Neither cmd/burn nor cmd/ostrich loads it;
// callers use LoadProfiles and Get directly. It persists no device state;
// the profiles are purely a host-side convenience layer in front of the
// core library.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moates-tools/godriver/internal/chip"
	"github.com/moates-tools/godriver/internal/transport"
)

// TraceDefaults mirrors the subset of TraceConfig a profile can pre-fill.
type TraceDefaults struct {
	Windowed        bool `yaml:"windowed"`
	Triggered       bool `yaml:"triggered"`
	NonRedundant    bool `yaml:"nonRedundant"`
	RelativeAddr    bool `yaml:"relativeAddr"`
	AddressBytes    int  `yaml:"addressBytes"`
	AddrsPerPacket  int  `yaml:"addrsPerPacket"`
	PacketsPerTrace int  `yaml:"packetsPerTrace"`
}

// DeviceProfile is one named device/session configuration.
type DeviceProfile struct {
	Name        string        `yaml:"name"`
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	Chip        string        `yaml:"chip"`
	BlockSize   int           `yaml:"blockSize"`
	Bulk        bool          `yaml:"bulk"`
	Trace       TraceDefaults `yaml:"trace"`
}

// Profiles is the top-level devices.yaml document: a named list of
// DeviceProfile entries.
type Profiles struct {
	Devices []DeviceProfile `yaml:"devices"`
}

// LoadProfiles reads and validates a devices.yaml document.
func LoadProfiles(path string) (*Profiles, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var p Profiles
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for i := range p.Devices {
		if err := p.Devices[i].validate(); err != nil {
			return nil, fmt.Errorf("config: device %q: %w", p.Devices[i].Name, err)
		}
	}
	return &p, nil
}

func (d DeviceProfile) validate() error {
	if d.Chip != "" {
		if _, ok := chip.ByName(d.Chip); !ok {
			return fmt.Errorf("unknown chip family %q", d.Chip)
		}
	}
	if d.Baud != 0 && d.Baud != transport.HighBaud && d.Baud != transport.LowBaud {
		return fmt.Errorf("unsupported baud %d (want %d or %d)", d.Baud, transport.HighBaud, transport.LowBaud)
	}
	return nil
}

// Get looks up a profile by name.
func (p *Profiles) Get(name string) (*DeviceProfile, error) {
	for i := range p.Devices {
		if p.Devices[i].Name == name {
			return &p.Devices[i], nil
		}
	}
	return nil, fmt.Errorf("config: no device profile named %q", name)
}
