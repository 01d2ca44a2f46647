package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Deanly/struct-layout-sub000/hexdump"
)

type hexOptions struct {
	offset int
	length int
	width  int
}

func newHexCmd(fs afero.Fs, cfg envConfig) *cobra.Command {
	opts := hexOptions{}
	cmd := &cobra.Command{
		Use:   "hex <file>",
		Short: "Hex dump a file or a window of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			window, err := opts.window(data)
			if err != nil {
				return err
			}

			return hexdump.Format(cmd.OutOrStdout(), window,
				hexdump.WithWidth(opts.width),
				hexdump.WithBaseOffset(opts.offset))
		},
	}

	cmd.Flags().IntVar(&opts.offset, "offset", 0, "First byte to dump")
	cmd.Flags().IntVar(&opts.length, "length", -1, "Bytes to dump; -1 dumps to the end of the file")
	cmd.Flags().IntVar(&opts.width, "width", cfg.Width, "Bytes per row")

	return cmd
}

func (o hexOptions) window(data []byte) ([]byte, error) {
	if o.offset < 0 || o.offset > len(data) {
		return nil, fmt.Errorf("offset %d outside %d byte file", o.offset, len(data))
	}

	end := len(data)
	if o.length >= 0 {
		end = min(end, o.offset+o.length)
	}

	return data[o.offset:end], nil
}
