package ostrich

import "time"

// CoherenceReport is the result of CheckBankCoherence: the device's
// reported slot for each role alongside the host mirror's view.
type CoherenceReport struct {
	DeviceSlot [3]int
	MirrorSlot [3]int
	Coherent   bool
}

// CheckBankCoherence queries all three bank roles directly off the wire
// and compares them against the host mirror, without reconciling any
// disagreement it finds. Supplemented from the original's bank_check.c
// diagnostic utility.
func (e *Engine) CheckBankCoherence() (*CoherenceReport, error) {
	report := &CoherenceReport{Coherent: true}
	roles := [3]Role{RoleEmulation, RolePersistent, RoleUpdate}
	for i, r := range roles {
		slot, err := e.queryBank(r)
		if err != nil {
			return nil, err
		}
		report.DeviceSlot[i] = slot
		mirrored, _ := e.mirror.Slot(r)
		report.MirrorSlot[i] = mirrored
		if mirrored != slot {
			report.Coherent = false
		}
	}
	return report, nil
}

// ThroughputReport is the result of BenchmarkBulkRead.
type ThroughputReport struct {
	Reads      int
	TotalBytes int
	Elapsed    time.Duration
}

// BenchmarkBulkRead times n successive bulk reads of the whole 512 KiB
// view, using the engine's currently configured block size. Supplemented
// from the original's bulk_read.c diagnostic utility. The caller is
// expected to have already set the Update role to Whole.
func (e *Engine) BenchmarkBulkRead(n int) (*ThroughputReport, error) {
	start := time.Now()
	total := 0
	for i := 0; i < n; i++ {
		data, err := e.Read(MaxImageSize)
		if err != nil {
			return nil, err
		}
		total += len(data)
	}
	return &ThroughputReport{
		Reads:      n,
		TotalBytes: total,
		Elapsed:    time.Since(start),
	}, nil
}
