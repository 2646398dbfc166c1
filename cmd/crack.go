package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/chain"
	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/workerpool"
)

var (
	crackTableFile string
	crackHashes    string
	crackThreads   int
	crackOutFile   string
)

var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Crack a hashes file locally against a rainbow table",
	RunE:  runCrack,
}

func init() {
	rootCmd.AddCommand(crackCmd)

	crackCmd.Flags().StringVar(&crackTableFile, "in-file", "", "rainbow table file path (required)")
	crackCmd.Flags().StringVar(&crackHashes, "hashes", "", "hashes file path (required)")
	crackCmd.Flags().IntVar(&crackThreads, "threads", 1, "number of cracking goroutines")
	crackCmd.Flags().StringVar(&crackOutFile, "out-file", "", "output path (default stdout)")

	_ = crackCmd.MarkFlagRequired("in-file")
	_ = crackCmd.MarkFlagRequired("hashes")
}

func runCrack(_ *cobra.Command, _ []string) error {
	if crackThreads <= 0 {
		return fmt.Errorf("%w: --threads must be greater than 0", hashassinerrors.ErrArgument)
	}

	tableLocal, err := resolveInFile(crackTableFile)
	if err != nil {
		return err
	}

	tf, err := os.Open(tableLocal)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", hashassinerrors.ErrIO, tableLocal, err)
	}

	table, err := filecodec.ReadRainbowTableFile(tf)
	_ = tf.Close()

	if err != nil {
		return err
	}

	hashesLocal, err := resolveInFile(crackHashes)
	if err != nil {
		return err
	}

	hf, err := os.Open(hashesLocal)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", hashassinerrors.ErrIO, hashesLocal, err)
	}

	hashesFile, err := filecodec.ReadHashesFile(hf)
	_ = hf.Close()

	if err != nil {
		return err
	}

	if hashesFile.Algorithm != table.Algorithm || hashesFile.PasswordLen != table.PasswordLen {
		return fmt.Errorf("%w: hashes file algorithm/password length does not match table", hashassinerrors.ErrArgument)
	}

	start := time.Now()
	display.CrackStarting(len(hashesFile.Hashes))

	pool := workerpool.New(crackThreads)

	type result struct {
		hash     []byte
		password []byte
		found    bool
	}

	jobs := make([]workerpool.Job[result], len(hashesFile.Hashes))
	for i, h := range hashesFile.Hashes {
		h := h

		jobs[i] = func() (result, error) {
			password, found, err := chain.Crack(table, h)
			if err != nil {
				return result{}, err
			}

			return result{hash: h, password: password, found: found}, nil
		}
	}

	results, err := workerpool.SubmitOrdered(pool, jobs)
	if err != nil {
		return fmt.Errorf("%w: cracking: %w", hashassinerrors.ErrIO, err)
	}

	out, closeOut, err := outputWriter(crackOutFile)
	if err != nil {
		return err
	}
	defer closeOut()

	bw := bufio.NewWriter(out)

	crackedCount := 0

	for _, r := range results {
		if !r.found {
			continue
		}

		crackedCount++

		if _, err := fmt.Fprintf(bw, "%x\t%s\n", r.hash, r.password); err != nil {
			return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	display.CrackComplete(len(hashesFile.Hashes), crackedCount, time.Since(start))

	return nil
}
