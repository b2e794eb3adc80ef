package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/spf13/cobra"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/format/metadata"
	"github.com/uclaacm/gzip/gzip/writer"
)

// compressCmd represents the compress command
var compressCmd = &cobra.Command{
	Use:   "compress [FILE]",
	Short: "Compress a file or standard input into a gzip member",
	Long: `Compress FILE (or standard input) and write the result to standard
output. The original file name and modification time are recorded in the
member header unless suppressed.`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runCompress,
	Example: "gz compress notes.txt > notes.txt.gz",
}

func runCompress(cmd *cobra.Command, args []string) error {
	in := io.Reader(cmd.InOrStdin())
	member := format.NewMember()

	if len(args) == 1 && args[0] != "-" {
		fileh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fileh.Close()
		in = fileh

		noName, _ := cmd.Flags().GetBool("no-name")
		noTime, _ := cmd.Flags().GetBool("no-time")
		if !noName {
			member.Name = filepath.Base(args[0])
		}
		info, err := fileh.Stat()
		if err != nil {
			return err
		}
		if !noTime {
			member.ModTime = uint32(info.ModTime().Unix())
		}
		if withMeta, _ := cmd.Flags().GetBool("metadata"); withMeta {
			meta := metadata.FileMetadata{
				Mode:       metadata.MakePointer(uint16(info.Mode().Perm())),
				MtimeNanos: metadata.MakePointer(uint32(info.ModTime().Nanosecond())),
			}
			sub, err := meta.Subfield()
			if err != nil {
				return err
			}
			member.Extra = append(member.Extra, sub)
		}
	}

	if comment, _ := cmd.Flags().GetString("comment"); comment != "" {
		member.Comment = comment
	}
	if headerCrc, _ := cmd.Flags().GetBool("header-crc"); headerCrc {
		member.HeaderCRC = true
	}
	if store, _ := cmd.Flags().GetBool("store"); store {
		member.Method = format.MethodStore
	}

	level := flate.DefaultCompression
	if fast, _ := cmd.Flags().GetBool("fast"); fast {
		level = flate.BestSpeed
	}
	if best, _ := cmd.Flags().GetBool("best"); best {
		level = flate.BestCompression
	}

	w, err := writer.NewWriterLevel(cmd.OutOrStdout(), member, level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	return w.Close()
}

func init() {
	rootCmd.AddCommand(compressCmd)
	compressCmd.Flags().BoolP("fast", "1", false, "Compress faster")
	compressCmd.Flags().BoolP("best", "9", false, "Compress better")
	compressCmd.Flags().BoolP("no-name", "n", false, "Don't save the original file name")
	compressCmd.Flags().BoolP("no-time", "m", false, "Don't save the original file time")
	compressCmd.Flags().Bool("store", false, "Frame the data without compressing it")
	compressCmd.Flags().Bool("header-crc", false, "Protect the header with a CRC-16")
	compressCmd.Flags().Bool("metadata", false, "Record file mode and sub-second mtime in a metadata subfield")
	compressCmd.Flags().String("comment", "", "Add a comment to the member")
}
