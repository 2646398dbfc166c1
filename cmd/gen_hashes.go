package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/fetch"
	"github.com/hashassin/hashassin/lib/filecodec"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/workerpool"
	"github.com/hashassin/hashassin/shared"
)

var (
	genHashesInFile   string
	genHashesOutFile  string
	genHashesThreads  int
	genHashesAlgoName string
)

var genHashesCmd = &cobra.Command{
	Use:   "gen-hashes",
	Short: "Hash a password list into a hashes file",
	RunE:  runGenHashes,
}

func init() {
	rootCmd.AddCommand(genHashesCmd)

	genHashesCmd.Flags().StringVar(&genHashesInFile, "in-file", "", "password list path or URL (required)")
	genHashesCmd.Flags().StringVar(&genHashesOutFile, "out-file", "", "hashes file output path (required)")
	genHashesCmd.Flags().IntVar(&genHashesThreads, "threads", 1, "number of hashing goroutines")
	genHashesCmd.Flags().StringVar(&genHashesAlgoName, "algorithm", "", "digest algorithm (required)")

	_ = genHashesCmd.MarkFlagRequired("in-file")
	_ = genHashesCmd.MarkFlagRequired("out-file")
	_ = genHashesCmd.MarkFlagRequired("algorithm")
}

func runGenHashes(_ *cobra.Command, _ []string) error {
	if genHashesThreads <= 0 {
		return fmt.Errorf("%w: --threads must be greater than 0", hashassinerrors.ErrArgument)
	}

	algo, err := algorithm.ParseAlgorithm(genHashesAlgoName)
	if err != nil {
		return err
	}

	localPath, err := resolveInFile(genHashesInFile)
	if err != nil {
		return err
	}

	passwords, err := readPasswordList(localPath)
	if err != nil {
		return err
	}

	passwordLen := 0
	if len(passwords) > 0 {
		passwordLen = len(passwords[0])
	}

	for i, p := range passwords {
		if len(p) != passwordLen {
			return fmt.Errorf("%w: password %d has length %d, want %d", hashassinerrors.ErrArgument, i, len(p), passwordLen)
		}
	}

	start := time.Now()
	display.GenerationStarting("hashes", len(passwords), genHashesThreads)

	pool := workerpool.New(genHashesThreads)

	bar := pb.New(len(passwords))
	bar.Start()

	jobs := make([]workerpool.Job[[]byte], len(passwords))
	for i, p := range passwords {
		p := p

		jobs[i] = func() ([]byte, error) {
			defer bar.Increment()
			return algorithm.Hash(algo, p)
		}
	}

	hashes, err := workerpool.SubmitOrdered(pool, jobs)
	bar.Finish()

	if err != nil {
		return fmt.Errorf("%w: hashing passwords: %w", hashassinerrors.ErrIO, err)
	}

	err = filecodec.SaveAtomic(genHashesOutFile, func(w io.Writer) error {
		return filecodec.WriteHashesFile(w, filecodec.HashesFile{Algorithm: algo, PasswordLen: passwordLen, Hashes: hashes})
	})
	if err != nil {
		return err
	}

	display.GenerationComplete("hashes", len(hashes), time.Since(start))

	return nil
}

// resolveInFile fetches src to a temporary local path if it names a remote
// URL, or returns src unchanged if it already names a local file.
func resolveInFile(src string) (string, error) {
	opts := fetch.DefaultOptions()
	opts.Retries = shared.State.DownloadRetries
	opts.RetryDelay = time.Duration(shared.State.DownloadDelayMS) * time.Millisecond

	dstDir, err := os.MkdirTemp("", "hashassin-fetch")
	if err != nil {
		return "", fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	resolved, err := fetch.Resolve(shared.State.Context, src, dstDir+"/fetched", opts)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %w", hashassinerrors.ErrIO, src, err)
	}

	return resolved, nil
}

// readPasswordList reads one password per line from path.
func readPasswordList(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", hashassinerrors.ErrIO, path, err)
	}
	defer f.Close()

	var passwords [][]byte

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strutil.IsBlank(line) {
			continue
		}

		passwords = append(passwords, []byte(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", hashassinerrors.ErrIO, path, err)
	}

	return passwords, nil
}
