// Package cli implements the skillmem CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/skillmem/internal/config"
	"github.com/forgekit/skillmem/internal/memory"
	"github.com/forgekit/skillmem/internal/model"
	"github.com/forgekit/skillmem/internal/store"
)

var (
	dirFlag    string
	dbFlag     string
	configFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "skillmem",
	Short: "Hierarchical persistent memory for agent skills",
	Long:  "A namespaced memory store for agent skills: markdown records with freshness tracking, retention policies, and quality validation. File-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Memory root directory (default: $SKILLMEM_DIR or ~/.skillmem/memory)")
	RootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Metadata database path (default: $SKILLMEM_DB or <dir>/../meta.db)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Policy config file (default: $SKILLMEM_CONFIG or built-in policies)")
}

func memoryDir() string {
	if dirFlag != "" {
		return dirFlag
	}
	if env := os.Getenv("SKILLMEM_DIR"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skillmem", "memory")
}

func metaDBPath() string {
	if dbFlag != "" {
		return dbFlag
	}
	if env := os.Getenv("SKILLMEM_DB"); env != "" {
		return env
	}
	return filepath.Join(filepath.Dir(memoryDir()), "meta.db")
}

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return os.Getenv("SKILLMEM_CONFIG")
}

func openStore() (*memory.MemoryStore, func(), error) {
	blobs, err := store.NewFSStore(memoryDir())
	if err != nil {
		return nil, nil, err
	}
	meta, err := store.NewMetaStore(metaDBPath())
	if err != nil {
		return nil, nil, err
	}
	cfg := config.Default()
	if p := configPath(); p != "" {
		cfg, err = config.Load(p)
		if err != nil {
			meta.Close()
			return nil, nil, err
		}
	}
	return memory.New(blobs, meta, cfg), func() { meta.Close() }, nil
}

// addrFlags registers the shared address flags on a command.
func addrFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("layer", "l", "", "Layer: skill (skill-specific) or project (shared-project)")
	cmd.Flags().StringP("skill", "s", "", "Skill name (required for the skill layer)")
	cmd.Flags().StringP("project", "p", "", "Project name")
	cmd.Flags().String("file", "", "Record file name, e.g. known_issues.md")
	cmd.MarkFlagRequired("layer")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("file")
}

func addrFromFlags(cmd *cobra.Command) (model.Address, error) {
	layer, _ := cmd.Flags().GetString("layer")
	skill, _ := cmd.Flags().GetString("skill")
	project, _ := cmd.Flags().GetString("project")
	file, _ := cmd.Flags().GetString("file")

	var l model.Layer
	switch strings.ToLower(layer) {
	case "skill", string(model.LayerSkill):
		l = model.LayerSkill
	case "project", string(model.LayerProject):
		l = model.LayerProject
	default:
		return model.Address{}, fmt.Errorf("unknown layer %q (use skill or project)", layer)
	}
	return model.Address{Layer: l, Skill: skill, Project: project, File: file}, nil
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
