package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Artifact is an immutable generated output: the text produced by one model
// call plus enough provenance to reproduce or audit it.
type Artifact struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Prompt    string            `json:"prompt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Hash      string            `json:"hash"`
}

// New creates an Artifact with a fresh id and computed content hash.
func New(content, provider, model, prompt string) *Artifact {
	a := &Artifact{
		ID:        uuid.NewString(),
		Content:   content,
		Provider:  provider,
		Model:     model,
		Prompt:    prompt,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}
	a.Hash = a.computeHash()
	return a
}

// WithMetadata returns a copy of the artifact with one metadata entry added.
func (a *Artifact) WithMetadata(key, value string) *Artifact {
	copied := *a
	copied.Metadata = make(map[string]string, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		copied.Metadata[k] = v
	}
	copied.Metadata[key] = value
	return &copied
}

func (a *Artifact) computeHash() string {
	h := sha256.New()
	h.Write([]byte(a.Content))
	h.Write([]byte(a.Provider))
	h.Write([]byte(a.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
