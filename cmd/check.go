package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/genomedex/locus"
	"github.com/jsphweid/genomedex/track"
)

func init() {
	checkCmd.Flags().StringVarP(&serveFlags.config, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(checkCmd)
}

// checkCmd resolves the config the same way serve does and prints what would
// be exposed, without starting a server.
var checkCmd = &cobra.Command{
	Use:   "check [alignment files...]",
	Short: "Print the exposed-file set and locus pages for a config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args)
		if err != nil {
			return err
		}

		registry := track.NewRegistry(cfg.ModelTracks(), cfg.Reference)
		fmt.Println("exposed files:")
		for _, p := range registry.Paths() {
			marker := " "
			if _, err := os.Stat(p); err != nil {
				marker = "!"
			}
			fmt.Printf("  %s %s\n", marker, p)
		}

		pages := locus.Paginate(cfg.Loci, cfg.LociPerPage)
		fmt.Printf("loci: %d across %d pages\n", len(cfg.Loci), len(pages))
		if len(cfg.PermittedIPs) == 0 {
			fmt.Println("permitted clients: any")
		} else {
			fmt.Printf("permitted clients: %v\n", cfg.PermittedIPs)
		}
		return nil
	},
}
