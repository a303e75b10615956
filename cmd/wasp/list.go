package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/wasp/internal/apps"
	"github.com/eliteGoblin/wasp/internal/domain"
	"github.com/eliteGoblin/wasp/internal/infra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled applications",
	Long:  `Shows every application wasp can run, where it lives, and whether it is installed at start up.`,
	RunE:  runList,
}

type listEntry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var prefs domain.PreferenceStore
	if p, err := infra.OpenPreferences(cfg.DataDir); err == nil {
		defer p.Close()
		prefs = p
	}

	catalog := apps.NewDefaultCatalog(prefs, nil)
	entries, err := catalog.Describe(prefs)
	if err != nil {
		return err
	}

	var out []listEntry
	for _, e := range entries {
		out = append(out, listEntry{Name: e.Name(), Kind: e.Kind.String(), Enabled: e.Enabled})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("\n=== Applications ===")
	for _, e := range out {
		mark := " "
		if e.Enabled {
			mark = "*"
		}
		fmt.Printf("%s %-10s %s\n", mark, e.Name, e.Kind)
	}
	fmt.Println("\n* installed at start up")
	fmt.Println("====================")
	return nil
}
