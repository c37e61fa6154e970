package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm <file.pasm>",
	Short: "assemble a file and report its code object's shape",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := assembleFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("name:      %s\n", code.Name)
		fmt.Printf("version:   %s\n", code.Version)
		fmt.Printf("argcount:  %d\n", code.ArgCount)
		fmt.Printf("varnames:  %v\n", code.VarNames)
		fmt.Printf("names:     %v\n", code.Names)
		fmt.Printf("consts:    %v\n", code.Consts)
		fmt.Printf("bytecode:  %d bytes\n", len(code.Code))
		return nil
	},
}
