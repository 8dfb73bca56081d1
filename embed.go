package blog

import "embed"

// EmbeddedAssets contains the stylesheet and reader script served under
// /public/, plus the sample article content seeded into the store.
//
//go:embed embedded/* content/articles.yaml
var EmbeddedAssets embed.FS
