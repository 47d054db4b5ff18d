package chart

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/chartmint/chartmint/internal/runcache"
)

// PublishedIndex reads the index.yaml of an already published chart
// repository. The index is fetched at most once per invocation.
type PublishedIndex struct {
	url   string
	cache *runcache.Cache
}

// NewPublishedIndex points at the repository base URL that serves
// index.yaml.
func NewPublishedIndex(url string, cache *runcache.Cache) *PublishedIndex {
	return &PublishedIndex{url: strings.TrimRight(url, "/"), cache: cache}
}

type indexFile struct {
	Entries map[string][]struct {
		Version string `yaml:"version"`
	} `yaml:"entries"`
}

// HasVersion reports whether the published index already lists version
// for chartName. A repository that does not serve an index yet counts
// as empty.
func (p *PublishedIndex) HasVersion(chartName, version string) (bool, error) {
	idx, err := runcache.Memo(p.cache, "chartindex\x00"+p.url, func() (indexFile, error) {
		return p.fetch()
	})
	if err != nil {
		return false, err
	}
	for _, entry := range idx.Entries[chartName] {
		if entry.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (p *PublishedIndex) fetch() (indexFile, error) {
	resp, err := http.Get(p.url + "/index.yaml")
	if err != nil {
		return indexFile{}, fmt.Errorf("fetch chart index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return indexFile{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return indexFile{}, fmt.Errorf("fetch chart index: %s returned %s", p.url, resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return indexFile{}, fmt.Errorf("read chart index: %w", err)
	}
	var idx indexFile
	if err := yaml.Unmarshal(b, &idx); err != nil {
		return indexFile{}, fmt.Errorf("parse chart index: %w", err)
	}
	return idx, nil
}
