// Command wasmrun is the CLI adapter of spec.md §6: "wasm-run <file.wasm>
// <export> <arg...>", exit code 0 on success, 1 on Trap, 2 on decode or
// validate failure. A separate "validate" subcommand decodes and validates
// without instantiating, matching rasmus/src/main.rs's split between
// parse/validate and execute.
//
// Grounded on the teacher's cmd/wazero command tree (run/compile/version
// subcommands dispatched by hand-written flag parsing), rebuilt on
// github.com/spf13/cobra + github.com/spf13/pflag per the ambient stack.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wasmkit/wasmkit"
	"github.com/wasmkit/wasmkit/api"
	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wlog"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliError carries the exit code a failure should produce, distinguishing
// spec.md §7's three error families at the CLI boundary: a Trap exits 1,
// everything that happens before a module starts running (file I/O,
// SyntaxError, ValidationError, InstantiationError) exits 2.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "wasmrun",
		Short:         "Decode, validate, and run WebAssembly 1.0 binaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				wlog.SetLevel("debug")
			} else {
				wlog.SetLevel("info")
			}
		},
	}

	verboseFlags := pflag.NewFlagSet("wasmrun", pflag.ContinueOnError)
	verboseFlags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().AddFlagSet(verboseFlags)

	cmd.AddCommand(newRunCmd(), newValidateCmd(), newVersionCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.wasm> <export> [arg...]",
		Short: "Instantiate a module and invoke one of its exported functions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(cmd, args[0], args[1], args[2:])
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.wasm>",
		Short: "Decode and validate a module without instantiating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wasmrun version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func doValidate(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	r := wasmkit.NewRuntime(nil)
	if _, err := r.CompileModule(context.Background(), source); err != nil {
		wlog.Module(path).WithField("stage", "validate").Warn(err)
		return &cliError{code: 2, err: err}
	}
	return nil
}

func doRun(cmd *cobra.Command, path, export string, rawArgs []string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	r := wasmkit.NewRuntime(nil)
	compiled, err := r.CompileModule(context.Background(), source)
	if err != nil {
		wlog.Module(path).WithField("stage", "compile").Warn(err)
		return &cliError{code: 2, err: err}
	}

	mod, err := r.InstantiateModule(context.Background(), compiled, nil)
	if err != nil {
		wlog.Module(path).WithField("stage", "instantiate").Warn(err)
		return &cliError{code: 2, err: err}
	}

	fn, ok := mod.ExportedFunction(export)
	if !ok {
		return &cliError{code: 2, err: fmt.Errorf("%s: no such export %q", path, export)}
	}

	ft := fn.Type()
	if len(rawArgs) != len(ft.Params) {
		return &cliError{code: 2, err: fmt.Errorf("%s.%s wants %d args, got %d", path, export, len(ft.Params), len(rawArgs))}
	}
	stackArgs, err := encodeArgs(ft.Params, rawArgs)
	if err != nil {
		return &cliError{code: 2, err: err}
	}

	results, err := fn.Call(context.Background(), stackArgs...)
	if err != nil {
		wlog.Func(path, 0).WithField("export", export).Error(err)
		return &cliError{code: 1, err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatResults(ft.Results, results))
	return nil
}

// encodeArgs parses each CLI argument as the numeric literal appropriate
// for its declared ValueType and encodes it as a raw stack word (spec.md
// §3 "Value types").
func encodeArgs(params []wasm.ValueType, rawArgs []string) ([]uint64, error) {
	out := make([]uint64, len(params))
	for i, t := range params {
		raw := rawArgs[i]
		switch t {
		case wasm.ValueTypeI32:
			v, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			out[i] = api.EncodeI32(int32(v))
		case wasm.ValueTypeI64:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			out[i] = api.EncodeI64(v)
		case wasm.ValueTypeF32:
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			out[i] = api.EncodeF32(float32(v))
		case wasm.ValueTypeF64:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			out[i] = api.EncodeF64(v)
		default:
			return nil, fmt.Errorf("arg %d: unsupported parameter type %s", i, api.ValueTypeName(t))
		}
	}
	return out, nil
}

func formatResults(results []wasm.ValueType, stack []uint64) string {
	parts := make([]string, len(results))
	for i, t := range results {
		switch t {
		case wasm.ValueTypeI32:
			parts[i] = strconv.FormatInt(int64(int32(uint32(stack[i]))), 10)
		case wasm.ValueTypeI64:
			parts[i] = strconv.FormatInt(int64(stack[i]), 10)
		case wasm.ValueTypeF32:
			parts[i] = strconv.FormatFloat(float64(api.DecodeF32(stack[i])), 'g', -1, 32)
		case wasm.ValueTypeF64:
			parts[i] = strconv.FormatFloat(api.DecodeF64(stack[i]), 'g', -1, 64)
		default:
			parts[i] = fmt.Sprintf("%#x", stack[i])
		}
	}
	return strings.Join(parts, " ")
}
