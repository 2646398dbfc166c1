package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashassin/hashassin/lib/client"
	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/protocol"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running hashassin server",
}

func init() {
	rootCmd.AddCommand(clientCmd)
}

var (
	clientUploadServer string
	clientUploadFile   string
	clientUploadName   string
)

var clientUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a rainbow table to a server",
	RunE:  runClientUpload,
}

func init() {
	clientCmd.AddCommand(clientUploadCmd)

	clientUploadCmd.Flags().StringVar(&clientUploadServer, "server", "", "server address, host:port (required)")
	clientUploadCmd.Flags().StringVar(&clientUploadFile, "in-file", "", "rainbow table file path or URL (required)")
	clientUploadCmd.Flags().StringVar(&clientUploadName, "name", "", "name to register the table under (required)")

	_ = clientUploadCmd.MarkFlagRequired("server")
	_ = clientUploadCmd.MarkFlagRequired("in-file")
	_ = clientUploadCmd.MarkFlagRequired("name")
}

func runClientUpload(_ *cobra.Command, _ []string) error {
	localPath, err := resolveInFile(clientUploadFile)
	if err != nil {
		return err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("%w: statting %q: %w", hashassinerrors.ErrIO, localPath, err)
	}

	resp, err := client.Upload(clientUploadServer, clientUploadName, localPath)
	if err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	if resp.Status != protocol.StatusOK {
		return fmt.Errorf("%w: server rejected upload: %s", hashassinerrors.ErrProtocol, resp.Message)
	}

	display.TableUploaded(clientUploadName, clientUploadServer, info.Size())
	fmt.Println(resp.Message)

	return nil
}

var (
	clientCrackServer  string
	clientCrackFile    string
	clientCrackOutFile string
)

var clientCrackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Ask a server to crack a hashes file",
	RunE:  runClientCrack,
}

func init() {
	clientCmd.AddCommand(clientCrackCmd)

	clientCrackCmd.Flags().StringVar(&clientCrackServer, "server", "", "server address, host:port (required)")
	clientCrackCmd.Flags().StringVar(&clientCrackFile, "in-file", "", "hashes file path (required)")
	clientCrackCmd.Flags().StringVar(&clientCrackOutFile, "out-file", "", "output path (default stdout)")

	_ = clientCrackCmd.MarkFlagRequired("server")
	_ = clientCrackCmd.MarkFlagRequired("in-file")
}

func runClientCrack(_ *cobra.Command, _ []string) error {
	localPath, err := resolveInFile(clientCrackFile)
	if err != nil {
		return err
	}

	resp, err := client.Crack(clientCrackServer, localPath)
	if err != nil {
		return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
	}

	if resp.Status != protocol.StatusOK {
		return fmt.Errorf("%w: server reported an error cracking the request", hashassinerrors.ErrProtocol)
	}

	out, closeOut, err := outputWriter(clientCrackOutFile)
	if err != nil {
		return err
	}
	defer closeOut()

	for _, r := range resp.Results {
		if _, err := fmt.Fprintf(out, "%x\t%s\n", r.Hash, r.Password); err != nil {
			return fmt.Errorf("%w: %w", hashassinerrors.ErrIO, err)
		}
	}

	return nil
}
