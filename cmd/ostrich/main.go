// Command ostrich drives an Ostrich emulator: bank selection, block
// read/write, trace acquisition, and the bundled diagnostic utilities.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/ostrich"
	"github.com/moates-tools/godriver/internal/session"
	"github.com/moates-tools/godriver/internal/trace"
	"github.com/moates-tools/godriver/internal/transport"
	"github.com/moates-tools/godriver/internal/ui/colorize"
)

var (
	port    string
	verbose bool

	traceWindowed        bool
	traceTriggered       bool
	traceNonRedundant    bool
	traceRelative        bool
	traceAddressBytes    int
	traceAddrsPerPacket  int
	tracePacketsPerTrace int
	traceStart           int
	traceEnd             int
)

func main() {
	root := &cobra.Command{
		Use:   "ostrich",
		Short: "Drive an Ostrich emulator",
	}
	root.PersistentFlags().StringVarP(&port, "port", "p", "", "serial port path")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug logging")
	root.MarkPersistentFlagRequired("port")

	bankCmd := &cobra.Command{Use: "bank", Short: "Get or set a bank role's slot"}
	bankCmd.AddCommand(bankGetCmd(), bankSetCmd())

	traceCommand := traceCmd()
	traceCommand.Flags().BoolVar(&traceWindowed, "windowed", false, "windowed trace")
	traceCommand.Flags().BoolVar(&traceTriggered, "triggered", false, "triggered trace")
	traceCommand.Flags().BoolVar(&traceNonRedundant, "non-redundant", false, "suppress redundant addresses")
	traceCommand.Flags().BoolVar(&traceRelative, "relative", false, "relative addressing")
	traceCommand.Flags().IntVar(&traceAddressBytes, "address-bytes", 2, "address width in bytes (1-3)")
	traceCommand.Flags().IntVar(&traceAddrsPerPacket, "addrs-per-packet", 4, "addresses per packet")
	traceCommand.Flags().IntVar(&tracePacketsPerTrace, "packets-per-trace", 1, "packets per trace")
	traceCommand.Flags().IntVar(&traceStart, "start", 0, "window/trigger start address")
	traceCommand.Flags().IntVar(&traceEnd, "end", 0, "window/trigger end address")

	root.AddCommand(probeCmd(), bankCmd, readCmd(), writeCmd(), traceCommand, infoCmd(), benchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize.Error(err.Error()))
		os.Exit(1)
	}
}

func openSession() (*session.Session, *ostrich.Engine, error) {
	glog.Init(verbose)
	tr := transport.NewPosix(port)
	s := session.New(tr, glog.L)
	if err := s.Open(context.Background(), true); err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", port, err)
	}
	eng := ostrich.New(s.Transport()).WithLogger(s.Logger())
	return s, eng, nil
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe the device and report its identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			id := s.Identity()
			fmt.Printf("hw=%d fw=%d hwChar=%c vendor=%d serial=%x\n",
				id.HardwareVersion, id.FirmwareVersion, id.HardwareVersionChar, id.VendorID, id.SerialNumber)
			return nil
		},
	}
}

func parseRole(s string) (ostrich.Role, error) {
	switch s {
	case "emulation":
		return ostrich.RoleEmulation, nil
	case "persistent":
		return ostrich.RolePersistent, nil
	case "update":
		return ostrich.RoleUpdate, nil
	default:
		return 0, fmt.Errorf("unknown role %q (want emulation, persistent, or update)", s)
	}
}

func bankGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <role>",
		Short: "Print a bank role's current slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[0])
			if err != nil {
				return err
			}
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			slot, err := eng.GetBank(role)
			if err != nil {
				return err
			}
			fmt.Println(slot)
			return nil
		},
	}
}

func bankSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <role> <slot>",
		Short: "Set a bank role's slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[0])
			if err != nil {
				return err
			}
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot %q: %w", args[1], err)
			}
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.SwitchBank(eng, role, slot); err != nil {
				return err
			}
			fmt.Println(colorize.OK("bank set"))
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Read the active bank view to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := eng.GetBank(ostrich.RoleUpdate); err != nil {
				return err
			}
			data, err := eng.Read(eng.CurrentBankSize())
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	}
}

func writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <file>",
		Short: "Write a file to the active bank view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := eng.Write(data); err != nil {
				return err
			}
			fmt.Println(colorize.OK("write complete"))
			return nil
		},
	}
}

func traceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <file>",
		Short: "Acquire an address trace and write decoded addresses to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			cfg := trace.Config{
				Windowed:        traceWindowed,
				Triggered:       traceTriggered,
				NonRedundant:    traceNonRedundant,
				RelativeAddr:    traceRelative,
				AddressBytes:    traceAddressBytes,
				AddrsPerPacket:  traceAddrsPerPacket,
				PacketsPerTrace: tracePacketsPerTrace,
				Start:           traceStart,
				End:             traceEnd,
			}

			te := trace.New(s.Transport()).WithLogger(s.Logger())
			addrs, err := te.Acquire(cfg)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return trace.ToFile(addrs, f)
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report bank-role coherence between the device and the host mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			report, err := eng.CheckBankCoherence()
			if err != nil {
				return err
			}
			fmt.Printf("coherent=%v device=%v mirror=%v\n", report.Coherent, report.DeviceSlot, report.MirrorSlot)
			return nil
		},
	}
}

func benchCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time n successive bulk reads of the whole 512 KiB view",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			eng.SetBlockSize(ostrich.MaxBulkBlockSize)
			report, err := eng.BenchmarkBulkRead(n)
			if err != nil {
				return err
			}
			fmt.Printf("reads=%d bytes=%d elapsed=%s\n", report.Reads, report.TotalBytes, report.Elapsed)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 1, "number of successive bulk reads")
	return cmd
}
