package blog

import (
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vishyfortheworld/blog/markdown"
)

// SeedFile is the path of the sample content inside EmbeddedAssets.
const SeedFile = "content/articles.yaml"

type seedDocument struct {
	Author   string        `yaml:"author"`
	Articles []seedArticle `yaml:"articles"`
}

type seedArticle struct {
	ID       int64    `yaml:"id"`
	Title    string   `yaml:"title"`
	Excerpt  string   `yaml:"excerpt"`
	Content  string   `yaml:"content"`
	Category string   `yaml:"category"`
	Date     string   `yaml:"date"`
	ReadTime string   `yaml:"read_time"`
	Tags     []string `yaml:"tags"`
	Likes    int      `yaml:"likes"`
	Views    int      `yaml:"views"`
	Featured bool     `yaml:"featured"`
	Author   string   `yaml:"author"`
}

// ParseSeed decodes a YAML seed document into articles. Articles without a
// read time get one computed from their content; articles without an author
// inherit the document author.
func ParseSeed(data []byte) ([]Article, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	articles := make([]Article, 0, len(doc.Articles))
	seen := make(map[int64]struct{}, len(doc.Articles))
	for _, sa := range doc.Articles {
		if sa.ID == 0 {
			return nil, fmt.Errorf("seed article %q has no id", sa.Title)
		}
		if _, dup := seen[sa.ID]; dup {
			return nil, fmt.Errorf("seed article id %d is duplicated", sa.ID)
		}
		seen[sa.ID] = struct{}{}
		a := Article{
			ID:       sa.ID,
			Title:    strings.TrimSpace(sa.Title),
			Excerpt:  strings.TrimSpace(sa.Excerpt),
			Content:  sa.Content,
			Category: strings.ToLower(strings.TrimSpace(sa.Category)),
			Date:     sa.Date,
			ReadTime: sa.ReadTime,
			Tags:     FilterEmpty(sa.Tags),
			Likes:    sa.Likes,
			Views:    sa.Views,
			Featured: sa.Featured,
			Author:   sa.Author,
			Link:     ArticleLink(sa.ID),
		}
		if a.ReadTime == "" {
			a.ReadTime = CalculateReadingTime(markdown.PlainText(a.Content))
		}
		if a.Author == "" {
			a.Author = doc.Author
		}
		articles = append(articles, a)
	}
	SortByDate(articles)
	return articles, nil
}

// LoadSeed reads and parses the sample content from fsys.
func LoadSeed(fsys fs.FS) ([]Article, error) {
	data, err := fs.ReadFile(fsys, SeedFile)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// SeedStore inserts every seed article whose id is not in the store yet and
// reports how many were added. Existing articles and likes are left alone.
func SeedStore(s *Store, articles []Article) (int, error) {
	added := 0
	for _, a := range articles {
		_, err := s.GetArticle(a.ID)
		if err == nil {
			continue
		}
		if err != ErrNotFound {
			return added, err
		}
		if err := s.SaveArticle(a); err != nil {
			return added, fmt.Errorf("seed article %d: %w", a.ID, err)
		}
		added++
	}
	return added, nil
}
