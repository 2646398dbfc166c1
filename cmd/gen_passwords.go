package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/genpass"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/shared"
)

var (
	genPasswordsChars   uint8
	genPasswordsNum     int
	genPasswordsThreads int
	genPasswordsOutFile string
)

var genPasswordsCmd = &cobra.Command{
	Use:   "gen-passwords",
	Short: "Generate random fixed-length printable-ASCII passwords",
	RunE:  runGenPasswords,
}

func init() {
	rootCmd.AddCommand(genPasswordsCmd)

	genPasswordsCmd.Flags().Uint8Var(&genPasswordsChars, "chars", 4, "password length in characters")
	genPasswordsCmd.Flags().IntVar(&genPasswordsNum, "num", 0, "number of passwords to generate (required)")
	genPasswordsCmd.Flags().IntVar(&genPasswordsThreads, "threads", 1, "number of generator goroutines")
	genPasswordsCmd.Flags().StringVar(&genPasswordsOutFile, "out-file", "", "output path (default stdout)")

	_ = genPasswordsCmd.MarkFlagRequired("num")
}

func runGenPasswords(_ *cobra.Command, _ []string) error {
	if genPasswordsChars == 0 {
		return fmt.Errorf("%w: --chars must be greater than 0", hashassinerrors.ErrArgument)
	}

	if genPasswordsNum <= 0 {
		return fmt.Errorf("%w: --num must be greater than 0", hashassinerrors.ErrArgument)
	}

	if genPasswordsThreads <= 0 {
		return fmt.Errorf("%w: --threads must be greater than 0", hashassinerrors.ErrArgument)
	}

	start := time.Now()
	display.GenerationStarting("passwords", genPasswordsNum, genPasswordsThreads)

	bar := pb.New(genPasswordsNum)
	bar.Start()

	passwords, err := genpass.GenerateWithProgress(shared.State.Context, genPasswordsNum, int(genPasswordsChars), genPasswordsThreads, func() { bar.Increment() })
	bar.Finish()

	if err != nil {
		return fmt.Errorf("%w: generating passwords: %w", hashassinerrors.ErrIO, err)
	}

	out, closeOut, err := outputWriter(genPasswordsOutFile)
	if err != nil {
		return err
	}
	defer closeOut()

	bw := bufio.NewWriter(out)
	for _, p := range passwords {
		if _, err := bw.Write(p); err != nil {
			return fmt.Errorf("%w: writing password: %w", hashassinerrors.ErrIO, err)
		}

		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: writing password: %w", hashassinerrors.ErrIO, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	display.GenerationComplete("passwords", len(passwords), time.Since(start))

	return nil
}

// outputWriter opens path for writing, or returns os.Stdout when path is
// empty. The returned close function is always safe to call.
func outputWriter(path string) (*os.File, func(), error) {
	if strutil.IsBlank(path) {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: creating %q: %w", hashassinerrors.ErrIO, path, err)
	}

	return f, func() { _ = f.Close() }, nil
}
