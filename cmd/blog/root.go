package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishyfortheworld/blog"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Personal blog server",
	Long: `blog serves a personal blog: an article listing with search and
category filters, article pages with likes, bookmarks, reading progress and
share cards, plus RSS, a sitemap and a small admin area.

Configuration is read from a YAML file and BLOG_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "blog.yml", "config file path")
}

func loadConfig() (blog.SiteConfig, error) {
	cfg, err := blog.LoadConfig(cfgFile)
	if err != nil {
		return blog.SiteConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg blog.SiteConfig) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}
