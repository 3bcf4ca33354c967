// Command burn drives a Burn1/2 chip programmer: probe, erase,
// blank-check, write, read, and verify against one of the supported
// chip families.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moates-tools/godriver/internal/chip"
	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/programmer"
	"github.com/moates-tools/godriver/internal/session"
	"github.com/moates-tools/godriver/internal/transport"
	"github.com/moates-tools/godriver/internal/ui/colorize"
)

var (
	port     string
	chipName string
	verbose  bool
)

func main() {
	root := &cobra.Command{
		Use:   "burn",
		Short: "Drive a Burn1/2 chip programmer",
	}
	root.PersistentFlags().StringVarP(&port, "port", "p", "", "serial port path")
	root.PersistentFlags().StringVarP(&chipName, "chip", "t", "", "chip family (AT29C256, M2732A, AM29F040, SST27SF512, EECIV)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug logging")
	root.MarkPersistentFlagRequired("port")

	root.AddCommand(
		probeCmd(),
		eraseCmd(),
		blankCheckCmd(),
		writeCmd(),
		readCmd(),
		verifyCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize.Error(err.Error()))
		os.Exit(1)
	}
}

func openSession() (*session.Session, *programmer.Engine, error) {
	glog.Init(verbose)
	rec, ok := chip.ByName(chipName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown chip family %q", chipName)
	}

	tr := transport.NewPosix(port)
	s := session.New(tr, glog.L)
	if err := s.Open(context.Background(), false); err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", port, err)
	}

	eng := programmer.New(s.Transport(), rec, programmer.WithLogger(s.Logger()))
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
			fmt.Printf("hw=%d fw=%d hwChar=%c\n", id.HardwareVersion, id.FirmwareVersion, id.HardwareVersionChar)
			return nil
		},
	}
}

func eraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "erase",
		Short: "Erase the chip",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := eng.Erase(); err != nil {
				return err
			}
			fmt.Println(colorize.OK("erase complete"))
			return nil
		},
	}
}

func blankCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blank-check",
		Short: "Verify the chip reads as entirely blank",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			blank, err := eng.VerifyBlank()
			if err != nil {
				return err
			}
			if !blank {
				return fmt.Errorf("chip is not blank")
			}
			fmt.Println(colorize.OK("chip is blank"))
			return nil
		},
	}
}

func writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <file>",
		Short: "Write a file to the chip, flush to the top, and verify it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := s.WriteFileToChip(eng, image); err != nil {
				return err
			}
			fmt.Println(colorize.OK("write + verify complete"))
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Read the whole chip to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			data, err := eng.Read()
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Read back the chip and compare against a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, eng, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := eng.ReadBackVerify(image); err != nil {
				return err
			}
			fmt.Println(colorize.OK("verify passed"))
			return nil
		},
	}
}
