package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists artifacts as JSON under a content-addressed layout,
// sharded by the first two characters of the artifact hash.
type Store struct {
	BasePath string
}

// NewStore creates a store rooted at basePath. An empty basePath defaults
// to ~/.ia-framework/artifacts.
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		basePath = filepath.Join(home, ".ia-framework", "artifacts")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &Store{BasePath: basePath}, nil
}

// Save writes the artifact and returns the path it was stored at. Saving
// the same content twice overwrites the same file.
func (s *Store) Save(a *Artifact) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.BasePath, a.Hash[:2])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, a.Hash+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads an artifact back by its content hash.
func (s *Store) Load(hash string) (*Artifact, error) {
	if len(hash) < 2 {
		return nil, fmt.Errorf("invalid artifact hash %q", hash)
	}
	data, err := os.ReadFile(filepath.Join(s.BasePath, hash[:2], hash+".json"))
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding artifact %s: %w", hash, err)
	}
	return &a, nil
}

// List returns the hashes of every stored artifact, sorted.
func (s *Store) List() ([]string, error) {
	var hashes []string
	shards, err := os.ReadDir(s.BasePath)
	if err != nil {
		return nil, err
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.BasePath, shard.Name()))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(name, ".json") {
				hashes = append(hashes, strings.TrimSuffix(name, ".json"))
			}
		}
	}
	sort.Strings(hashes)
	return hashes, nil
}
