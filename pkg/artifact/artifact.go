package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Artifact is an immutable record of one model reply.
type Artifact struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Adapter   string    `json:"adapter"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
	Hash      string    `json:"hash"`
}

// New creates a new Artifact with computed hash.
func New(content, adapter, model, prompt string) *Artifact {
	a := &Artifact{
		ID:        uuid.NewString(),
		Content:   content,
		Adapter:   adapter,
		Model:     model,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}
	a.Hash = a.computeHash()
	return a
}

func (a *Artifact) computeHash() string {
	h := sha256.New()
	h.Write([]byte(a.Content))
	h.Write([]byte(a.Adapter))
	h.Write([]byte(a.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
