// Command terrariamenu attaches to a running game process and reads, writes
// and freezes values at configured addresses.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Zenakin-1777/TerrariaMenu/accessor"
	"github.com/Zenakin-1777/TerrariaMenu/config"
	"github.com/Zenakin-1777/TerrariaMenu/patch"
	"github.com/Zenakin-1777/TerrariaMenu/process"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "terrariamenu",
		Short: "Attach to a game process, read/write memory and freeze values",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yml (default ~/.terrariamenu/config.yml)")

	root.AddCommand(psCommand())
	root.AddCommand(readCommand())
	root.AddCommand(writeCommand())
	root.AddCommand(freezeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func psCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ps <name>",
		Short: "List processes matching a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := newLocator().ListByName(args[0])
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no process matches %q", args[0])
			}
			for _, m := range matches {
				fmt.Printf("%8d  %s\n", int(m.PID), m.Name)
			}
			return nil
		},
	}
}

// attachByName finds the process and attaches; callers must Detach.
func attachByName(name string) (*accessor.Accessor, *accessor.AttachInfo, error) {
	locator := newLocator()
	tp, err := locator.FindProcess(name)
	if err != nil {
		return nil, nil, err
	}
	acc := accessor.New(locator)
	info, err := acc.Attach(tp)
	if err != nil {
		return nil, nil, err
	}
	return acc, info, nil
}

func readCommand() *cobra.Command {
	var size uint
	cmd := &cobra.Command{
		Use:   "read <name> <addr> [int32|float32|float64|bytes]",
		Short: "Read a typed value or raw bytes at an absolute address",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := config.ParseAddress(args[1])
			if err != nil {
				return err
			}
			kind := "int32"
			if len(args) == 3 {
				kind = args[2]
			}

			acc, info, err := attachByName(args[0])
			if err != nil {
				return err
			}
			defer acc.Detach()
			fmt.Printf("attached to %s, module base %s\n", info.Target.String(), info.ModuleBase.String())

			switch kind {
			case "int32":
				v, err := acc.ReadInt32(addr)
				if err != nil {
					return err
				}
				fmt.Printf("%s = %d\n", addr, v)
			case "float32":
				v, err := acc.ReadFloat32(addr)
				if err != nil {
					return err
				}
				fmt.Printf("%s = %g\n", addr, v)
			case "float64":
				v, err := acc.ReadFloat64(addr)
				if err != nil {
					return err
				}
				fmt.Printf("%s = %g\n", addr, v)
			case "bytes":
				data, err := acc.ReadBytes(addr, process.MemorySize(size))
				if err != nil {
					return err
				}
				fmt.Print(hex.Dump(data))
			default:
				return fmt.Errorf("unknown type %q", kind)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&size, "size", 16, "byte count for bytes reads")
	return cmd
}

func writeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write <name> <addr> <int32|float32|float64> <value>",
		Short: "Write a typed value at an absolute address",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := config.ParseAddress(args[1])
			if err != nil {
				return err
			}
			value, err := parseValue(args[2], args[3])
			if err != nil {
				return err
			}

			acc, _, err := attachByName(args[0])
			if err != nil {
				return err
			}
			defer acc.Detach()

			if err := acc.WriteValue(addr, value); err != nil {
				return err
			}
			fmt.Printf("wrote %s at %s\n", value.String(), addr)
			return nil
		},
	}
}

func parseValue(kind, raw string) (process.Value, error) {
	switch kind {
	case "int32":
		v, err := strconv.ParseInt(raw, 0, 32)
		if err != nil {
			return process.Value{}, fmt.Errorf("bad int32 %q: %w", raw, err)
		}
		return process.Int32Value(int32(v)), nil
	case "float32":
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return process.Value{}, fmt.Errorf("bad float32 %q: %w", raw, err)
		}
		return process.Float32Value(float32(v)), nil
	case "float64":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return process.Value{}, fmt.Errorf("bad float64 %q: %w", raw, err)
		}
		return process.Float64Value(v), nil
	}
	return process.Value{}, fmt.Errorf("unknown type %q", kind)
}

func freezeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze",
		Short: "Load the freeze table, attach and re-assert values until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath == "" {
				cfg, err = config.LoadDefault()
			} else {
				cfg, err = config.Load(configPath)
			}
			if err != nil {
				return err
			}

			acc, info, err := attachByName(cfg.Process)
			if err != nil {
				return err
			}
			defer acc.Detach()
			fmt.Printf("attached to %s, module base %s\n", info.Target.String(), info.ModuleBase.String())

			var opts []patch.Option
			if cfg.SweepIntervalMS > 0 {
				opts = append(opts, patch.WithInterval(time.Duration(cfg.SweepIntervalMS)*time.Millisecond))
			}
			sched := patch.NewScheduler(acc, opts...)
			defer sched.Stop()

			for _, pc := range cfg.Patches {
				addr, err := resolvePatchAddress(acc, info, pc)
				if err != nil {
					return err
				}
				value, err := pc.PatchValue()
				if err != nil {
					return err
				}
				sched.Upsert(pc.Name, addr, value)
				sched.Activate(pc.Name)
				fmt.Printf("freezing %s at %s to %s\n", pc.Name, addr, value.String())
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			sched.DeactivateAll()
			stats := sched.Stats()
			fmt.Printf("\n%d sweeps, %d writes, %d write errors\n", stats.Sweeps, stats.Writes, stats.WriteErrors)
			return nil
		},
	}
}

// resolvePatchAddress turns a table entry into an absolute address, walking
// its pointer chain when one is configured.
func resolvePatchAddress(acc *accessor.Accessor, info *accessor.AttachInfo, pc config.PatchConfig) (process.MemoryAddress, error) {
	base, err := pc.BaseAddress(info.ModuleBase)
	if err != nil {
		return 0, err
	}
	offsets, err := pc.OffsetChain()
	if err != nil {
		return 0, err
	}
	if len(offsets) == 0 {
		return base, nil
	}
	addr, err := acc.ResolvePointerChain(base, offsets...)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", pc.Name, err)
	}
	return addr, nil
}
