package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List hosting providers the backend can generate deployment config for",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}

	providers, err := newClient(cfg).HostingProviders(cmd.Context())
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}

	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	for _, id := range ids {
		p := providers[id]
		bold.Printf("%-12s", id)
		dim.Printf("  %s", p.Name)
		if p.Platform != "" {
			dim.Printf(" (%s)", p.Platform)
		}
		fmt.Println()
		for _, cf := range p.ConfigFiles {
			fmt.Printf("    %s\n", cf.Name)
		}
	}
	return nil
}
