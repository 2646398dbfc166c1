package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

var dumpHashesInFile string

var dumpHashesCmd = &cobra.Command{
	Use:   "dump-hashes",
	Short: "Print a hashes file as text",
	RunE:  runDumpHashes,
}

func init() {
	rootCmd.AddCommand(dumpHashesCmd)

	dumpHashesCmd.Flags().StringVar(&dumpHashesInFile, "in-file", "", "hashes file path (required)")
	_ = dumpHashesCmd.MarkFlagRequired("in-file")
}

func runDumpHashes(_ *cobra.Command, _ []string) error {
	f, err := os.Open(dumpHashesInFile)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", hashassinerrors.ErrIO, dumpHashesInFile, err)
	}
	defer f.Close()

	hf, err := filecodec.ReadHashesFile(f)
	if err != nil {
		return err
	}

	return filecodec.DumpHashes(os.Stdout, hf)
}
