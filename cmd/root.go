package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/config"
	"github.com/fullstackacademy/academy/internal/content"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "academy",
	Short: "Fullstack Academy learning platform",
	Long:  "Fullstack Academy — terminal companion for the full-stack curriculum: validate content, take quizzes, and track progress.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ACADEMY_DB)")
	rootCmd.PersistentFlags().String("registry", "", "Path to the registry document (overrides ACADEMY_REGISTRY)")
	rootCmd.PersistentFlags().String("content-dir", "", "Path to the content tree (overrides ACADEMY_CONTENT_DIR)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads academy.yaml plus environment, then applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("registry"); p != "" {
		cfg.Content.RegistryPath = p
	}
	if p, _ := cmd.Flags().GetString("content-dir"); p != "" {
		cfg.Content.Dir = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.Path = p
	}
	return cfg, nil
}

// openRegistry loads and validates the registry document. An app build
// older than the registry's minAppVersion gets a warning, not a failure.
func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	data, err := os.ReadFile(cfg.Content.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	reg, err := registry.Load(data)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	if !reg.CompatibleWith(version) {
		fmt.Fprintf(os.Stderr, "warning: registry requires app version %s or newer (running %s)\n",
			reg.Settings.MinAppVersion, version)
	}
	return reg, nil
}

// loadDocs reads the lesson and quiz documents under the content dir.
func loadDocs(cfg *config.Config) (*content.Docs, []content.Finding) {
	return content.LoadDir(cfg.Content.Dir)
}

// openStore opens the learner-state database, falling back to the
// default XDG path when unconfigured.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// lessonTotals counts authored lessons per module so progress tracks the
// real lesson list rather than the declared minimum.
func lessonTotals(docs *content.Docs) map[string]int {
	totals := make(map[string]int, len(docs.Lessons))
	for slug, lessons := range docs.Lessons {
		totals[slug] = len(lessons)
	}
	return totals
}
