// Command genmasterkey writes a new hex master key for session cookies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrylevesque/academicverify/internal/files"
)

func main() {
	var out string
	cmd := &cobra.Command{
		Use:   "genmasterkey",
		Short: "Generate the session master key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := files.WriteMasterKey(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Master key written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "master.key", "Path of the key file to create; never overwritten")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
