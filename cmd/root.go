package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gz",
	Short: "gz reads and writes gzip (RFC 1952) archives",
	Long: `gz is a reference tool for the gzip file format. It compresses and
decompresses single streams, lists the members of an archive, and checks
archive integrity.

With no FILE, or when FILE is -, it reads standard input.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write detailed information to the terminal")
}
