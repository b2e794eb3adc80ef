package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/format/metadata"
	"github.com/uclaacm/gzip/gzip/reader"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list FILE...",
	Short: "List the members of gzip archives",
	Long: `Read each archive end to end, verifying it as it goes, and print
one line per member: method, CRC-32, uncompressed size, modification time,
OS, and stored name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	for _, filename := range args {
		fileh, err := os.Open(filename)
		if err != nil {
			return err
		}

		z, err := reader.NewReader(fileh)
		if err != nil {
			fileh.Close()
			return fmt.Errorf("%s: %w", filename, err)
		}
		if _, err := io.Copy(io.Discard, z); err != nil {
			z.Close()
			fileh.Close()
			return fmt.Errorf("%s: %w", filename, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", filename)
		fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %-10s %-12s %-20s %-10s %s\n",
			"method", "crc32", "size", "mtime", "os", "name")
		for _, member := range z.Archive().Members {
			explainMember(cmd, member, verbose)
		}

		z.Close()
		fileh.Close()
	}
	return nil
}

func explainMember(cmd *cobra.Command, member *format.Member, verbose bool) {
	mtime := "-"
	if member.ModTime != 0 {
		mtime = time.Unix(int64(member.ModTime), 0).UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %08x   %-12d %-20s %-10s %s\n",
		member.Method, member.CRC32, member.Size, mtime, member.OS, member.Name)

	if !verbose {
		return
	}
	spew.Fdump(cmd.OutOrStdout(), member)
	if meta, err := metadata.FromMember(member); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "  unreadable metadata subfield:", err)
	} else if meta != nil {
		spew.Fdump(cmd.OutOrStdout(), meta)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
