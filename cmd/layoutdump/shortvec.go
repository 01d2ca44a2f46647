package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Deanly/struct-layout-sub000/codec"
)

func newShortVecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortvec",
		Short: "Encode or decode ShortVec counts",
	}
	cmd.AddCommand(newShortVecEncodeCmd(), newShortVecDecodeCmd())

	return cmd
}

func newShortVecEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <n>...",
		Short: "Print the ShortVec encoding of each count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := strconv.ParseUint(arg, 0, 64)
				if err != nil {
					return fmt.Errorf("invalid count %q: %w", arg, err)
				}

				data, err := codec.Encode(codec.ShortVec{}, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t(%d bytes)\n", n, hex.EncodeToString(data), len(data))
			}

			return nil
		},
	}
}

func newShortVecDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a ShortVec count from hex bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(strings.TrimPrefix(strings.ReplaceAll(args[0], " ", ""), "0x"))
			if err != nil {
				return fmt.Errorf("invalid hex %q: %w", args[0], err)
			}

			v, span, err := codec.ShortVec{}.Decode(data, 0)
			if err != nil {
				return err
			}

			n := v.(uint64)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "value=%d span=%d\n", n, span)
			if minimal := codec.UvarintLen(n); minimal != span {
				fmt.Fprintf(out, "non-minimal encoding: %d bytes suffice\n", minimal)
			}

			return nil
		},
	}
}
