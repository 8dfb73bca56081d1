package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishyfortheworld/blog"
	"github.com/vishyfortheworld/blog/shareimage"
)

var (
	shareID  int64
	shareOut string
)

var shareImageCmd = &cobra.Command{
	Use:   "share-image",
	Short: "Render an article's 1080x1080 share card to a PNG file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := blog.NewStore(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()

		seed, err := blog.LoadSeed(blog.EmbeddedAssets)
		if err != nil {
			return err
		}
		if _, err := blog.SeedStore(store, seed); err != nil {
			return err
		}
		article, err := store.GetArticle(shareID)
		if err != nil {
			return fmt.Errorf("article %d: %w", shareID, err)
		}

		f, err := os.Create(shareOut)
		if err != nil {
			return err
		}
		app := blog.New(cfg, blog.ViewFuncs{}, blog.WithLogger(newLogger(cfg)))
		if err := shareimage.Encode(f, app.ShareCard(article)); err != nil {
			f.Close()
			return fmt.Errorf("rendering share card: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", shareOut)
		return nil
	},
}

func init() {
	shareImageCmd.Flags().Int64Var(&shareID, "id", blog.DefaultArticleID, "article id")
	shareImageCmd.Flags().StringVarP(&shareOut, "out", "o", blog.ShareFilename, "output file")
	rootCmd.AddCommand(shareImageCmd)
}
