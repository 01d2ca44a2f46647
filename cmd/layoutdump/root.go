package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Files are read through fs.
func newRootCmd(fs afero.Fs, cfg envConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "layoutdump",
		Short: "Inspect binary struct layouts",
		Long: `layoutdump renders encoded records for inspection.

Examples:
  layoutdump hex record.bin --offset 16 --length 64
  layoutdump shortvec encode 127 128 16384
  layoutdump shortvec decode 8001

Environment:
  LAYOUTDUMP_WIDTH  default bytes per hex row`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newHexCmd(fs, cfg), newShortVecCmd())

	return root
}
