package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "genomedex",
	Short: "Serve alignment files to a browser-based genome viewer",
	Long: `genomedex exposes a set of alignment files (and their indexes) over
HTTP with byte-range support, plus a small igv.js viewer page, so you can
step through a list of loci in a browser.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
