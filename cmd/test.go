package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"

	"github.com/uclaacm/gzip/gzip/reader"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test FILE...",
	Short: "Check archive integrity",
	Long: `Decompress each archive and throw the output away, verifying every
member's CRC-32 and size against its trailer. With --digest, also print a
BLAKE2b-512 of the decompressed payload for out-of-band comparison.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	withDigest, _ := cmd.Flags().GetBool("digest")

	for _, filename := range args {
		fileh, err := os.Open(filename)
		if err != nil {
			return err
		}

		err = testOne(cmd, fileh, filename, withDigest)
		fileh.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", filename)
	}
	return nil
}

func testOne(cmd *cobra.Command, in io.Reader, filename string, withDigest bool) error {
	z, err := reader.NewReader(in)
	if err != nil {
		return err
	}
	defer z.Close()

	sink := io.Discard
	digest, err := blake2b.New512(nil)
	if err != nil {
		return err
	}
	if withDigest {
		sink = digest
	}

	if _, err := io.Copy(sink, z); err != nil {
		return err
	}
	if withDigest {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: blake2b %x\n", filename, digest.Sum(nil))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().Bool("digest", false, "Print a BLAKE2b-512 digest of the decompressed payload")
}
