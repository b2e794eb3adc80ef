package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uclaacm/gzip/gzip/reader"
)

// decompressCmd represents the decompress command
var decompressCmd = &cobra.Command{
	Use:   "decompress [FILE]",
	Short: "Decompress a gzip stream to standard output",
	Long: `Decompress FILE (or standard input) and write the payloads of all
its members, in order, to standard output. Integrity is verified member by
member; a trailer mismatch fails the whole run even though earlier payload
bytes were already written.`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDecompress,
	Example: "gz decompress notes.txt.gz > notes.txt",
}

func runDecompress(cmd *cobra.Command, args []string) error {
	in := io.Reader(cmd.InOrStdin())
	if len(args) == 1 && args[0] != "-" {
		fileh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fileh.Close()
		in = fileh
	}

	z, err := reader.NewReader(in)
	if err != nil {
		return err
	}
	defer z.Close()

	if single, _ := cmd.Flags().GetBool("single"); single {
		z.Multistream(false)
	}

	_, err = io.Copy(cmd.OutOrStdout(), z)
	return err
}

func init() {
	rootCmd.AddCommand(decompressCmd)
	decompressCmd.Flags().Bool("single", false, "Stop after the first member instead of reading concatenated members")
}
