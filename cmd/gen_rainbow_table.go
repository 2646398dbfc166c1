package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/workerpool"
)

var (
	genTableInFile   string
	genTableOutFile  string
	genTableThreads  int
	genTableAlgoName string
	genTableNumLinks uint64
)

var genRainbowTableCmd = &cobra.Command{
	Use:   "gen-rainbow-table",
	Short: "Build a rainbow table from a password list",
	RunE:  runGenRainbowTable,
}

func init() {
	rootCmd.AddCommand(genRainbowTableCmd)

	genRainbowTableCmd.Flags().StringVar(&genTableInFile, "in-file", "", "password list path or URL (required)")
	genRainbowTableCmd.Flags().StringVar(&genTableOutFile, "out-file", "", "rainbow table output path (required)")
	genRainbowTableCmd.Flags().IntVar(&genTableThreads, "threads", 1, "number of chain-building goroutines")
	genRainbowTableCmd.Flags().StringVar(&genTableAlgoName, "algorithm", "", "digest algorithm (required)")
	genRainbowTableCmd.Flags().Uint64Var(&genTableNumLinks, "num-links", 5, "chain length")

	_ = genRainbowTableCmd.MarkFlagRequired("in-file")
	_ = genRainbowTableCmd.MarkFlagRequired("out-file")
	_ = genRainbowTableCmd.MarkFlagRequired("algorithm")
}

func runGenRainbowTable(_ *cobra.Command, _ []string) error {
	if genTableThreads <= 0 {
		return fmt.Errorf("%w: --threads must be greater than 0", hashassinerrors.ErrArgument)
	}

	if genTableNumLinks == 0 {
		return fmt.Errorf("%w: --num-links must be greater than 0", hashassinerrors.ErrArgument)
	}

	algo, err := algorithm.ParseAlgorithm(genTableAlgoName)
	if err != nil {
		return err
	}

	localPath, err := resolveInFile(genTableInFile)
	if err != nil {
		return err
	}

	seeds, err := readPasswordList(localPath)
	if err != nil {
		return err
	}

	if len(seeds) == 0 {
		return fmt.Errorf("%w: password list is empty", hashassinerrors.ErrArgument)
	}

	passwordLen := len(seeds[0])

	start := time.Now()
	display.GenerationStarting("rainbow-table", len(seeds), genTableThreads)

	bar := pb.New(len(seeds))
	bar.Start()

	table, err := buildTableConcurrently(algo, passwordLen, genTableNumLinks, seeds, genTableThreads, bar)
	bar.Finish()

	if err != nil {
		return fmt.Errorf("%w: building rainbow table: %w", hashassinerrors.ErrIO, err)
	}

	err = filecodec.SaveAtomic(genTableOutFile, func(w io.Writer) error {
		return filecodec.WriteRainbowTableFile(w, table)
	})
	if err != nil {
		return err
	}

	display.GenerationComplete("rainbow-table", len(table.Links), time.Since(start))

	return nil
}

// buildTableConcurrently builds one chain per seed across the worker pool,
// preserving seed order in the resulting table via SubmitOrdered's
// index-slotted results.
func buildTableConcurrently(algo algorithm.Algorithm, passwordLen int, numLinks uint64, seeds [][]byte, threads int, bar *pb.ProgressBar) (*chain.RainbowTable, error) {
	pool := workerpool.New(threads)

	jobs := make([]workerpool.Job[chain.Link], len(seeds))
	for i, seed := range seeds {
		seed := seed

		jobs[i] = func() (chain.Link, error) {
			defer bar.Increment()

			table, err := chain.Build(algo, passwordLen, numLinks, [][]byte{seed})
			if err != nil {
				return chain.Link{}, err
			}

			return table.Links[0], nil
		}
	}

	links, err := workerpool.SubmitOrdered(pool, jobs)
	if err != nil {
		return nil, err
	}

	return &chain.RainbowTable{Algorithm: algo, PasswordLen: passwordLen, NumLinks: numLinks, Links: links}, nil
}
