package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

var dumpTableInFile string

var dumpRainbowTableCmd = &cobra.Command{
	Use:   "dump-rainbow-table",
	Short: "Print a rainbow table file as text",
	RunE:  runDumpRainbowTable,
}

func init() {
	rootCmd.AddCommand(dumpRainbowTableCmd)

	dumpRainbowTableCmd.Flags().StringVar(&dumpTableInFile, "in-file", "", "rainbow table file path (required)")
	_ = dumpRainbowTableCmd.MarkFlagRequired("in-file")
}

func runDumpRainbowTable(_ *cobra.Command, _ []string) error {
	f, err := os.Open(dumpTableInFile)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", hashassinerrors.ErrIO, dumpTableInFile, err)
	}
	defer f.Close()

	table, err := filecodec.ReadRainbowTableFile(f)
	if err != nil {
		return err
	}

	return filecodec.DumpRainbowTable(os.Stdout, table)
}
