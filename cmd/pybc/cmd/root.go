package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shardpy/pybc/internal/config"
)

var opts = config.Default()
var configPath string

var rootCmd = &cobra.Command{
	Use:   "pybc",
	Short: "pybc runs hand-assembled CPython 3.4-3.8 style bytecode",
	Long: `pybc is a bytecode evaluator for a subset of CPython 3.4-3.8
evaluation-loop semantics. It never compiles source itself: "pybc asm"
assembles a small textual notation into a CodeObject directly, and
"pybc run"/"pybc disasm"/"pybc repl" operate on the result.`,
	// Flags are already parsed into opts's fields (they're bound by
	// pointer in init) by the time this runs, so a loaded config file
	// only fills in whichever fields the user didn't pass explicitly —
	// it's a lower-priority default, not an override.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("target") {
			opts.Version = loaded.Version
		}
		if !flags.Changed("trace") {
			opts.TraceLines = loaded.TraceLines
		}
		if !flags.Changed("trace-opcodes") {
			opts.TraceOpcodes = loaded.TraceOpcodes
		}
		if !flags.Changed("show-oparg") {
			opts.ShowOparg = loaded.ShowOparg
		}
		return nil
	},
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// DEBUG_INTERNAL mirrors a CPython dev-build convention: turn on the
	// noisy opcode-level trace by default without needing a flag on
	// every invocation, for whoever's debugging the evaluator itself.
	debugDefault := os.Getenv("DEBUG_INTERNAL") != ""

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML options file")
	rootCmd.PersistentFlags().StringVar(&opts.Version, "target", opts.Version, "target opcode version (3.4, 3.5, 3.6, 3.7, 3.8)")
	rootCmd.PersistentFlags().BoolVar(&opts.TraceLines, "trace", debugDefault, "fire a line-trace hook while running")
	rootCmd.PersistentFlags().BoolVar(&opts.TraceOpcodes, "trace-opcodes", debugDefault, "fire a trace hook on every opcode, not just line changes")
	rootCmd.PersistentFlags().BoolVar(&opts.ShowOparg, "show-oparg", false, "print raw operand values alongside resolved names in disassembly")

	rootCmd.AddCommand(runCmd, asmCmd, disasmCmd, replCmd)
}
