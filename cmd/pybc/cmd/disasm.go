package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shardpy/pybc/internal/asm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file.pasm>",
	Short: "assemble a file and print its disassembly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := assembleFile(args[0])
		if err != nil {
			return err
		}
		if opts.ShowOparg {
			fmt.Print(asm.DisassembleOparg(code))
		} else {
			fmt.Print(asm.Disassemble(code))
		}
		return nil
	},
}
