// Package identity manages the anonymous per-client token used to
// deduplicate reactions and reports without accounts.
//
// The token is pseudonymous: it is random, never derived from anything about
// the user, and lives only in the client's own key-value store.
package identity

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Keys under which client state is persisted.
const (
	TokenKey    = "freedom-wall-client-hash"
	VisitedKey  = "freedom-wall-visited"
	ReportedKey = "reported-confessions"
)

// Identity hands out the client token. When the KV is unreachable every Get
// returns a fresh token, so dedup degrades to per-call at worst; this never
// surfaces as an error.
type Identity struct {
	kv       KV
	generate func() string
}

func New(kv KV) *Identity {
	return &Identity{kv: kv, generate: NewToken}
}

// Get returns the persisted token, minting and storing one on first use.
func (id *Identity) Get() string {
	token, ok, err := id.kv.Get(TokenKey)
	if err != nil {
		slog.Warn("client token store unavailable, using session token", "error", err)
		return id.generate()
	}
	if ok && token != "" {
		return token
	}

	token = id.generate()
	if err := id.kv.Set(TokenKey, token); err != nil {
		slog.Warn("failed to persist client token", "error", err)
	}
	return token
}

// Reset forgets the stored token; the next Get mints a new one.
func (id *Identity) Reset() {
	if err := id.kv.Remove(TokenKey); err != nil {
		slog.Warn("failed to clear client token", "error", err)
	}
}

// Visited reports whether this client has been marked as having seen the welcome screen.
func (id *Identity) Visited() bool {
	v, ok, err := id.kv.Get(VisitedKey)
	if err != nil {
		return false
	}
	return ok && v == "true"
}

func (id *Identity) MarkVisited() {
	if err := id.kv.Set(VisitedKey, "true"); err != nil {
		slog.Warn("failed to persist visited flag", "error", err)
	}
}

// HasReported reports whether this client already filed a report on contentID.
func (id *Identity) HasReported(contentID string) bool {
	for _, r := range id.reported() {
		if r == contentID {
			return true
		}
	}
	return false
}

// MarkReported records a filed report so the client can suppress a second one.
func (id *Identity) MarkReported(contentID string) error {
	list := id.reported()
	for _, r := range list {
		if r == contentID {
			return nil
		}
	}
	list = append(list, contentID)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode reported list: %w", err)
	}
	return id.kv.Set(ReportedKey, string(data))
}

func (id *Identity) reported() []string {
	raw, ok, err := id.kv.Get(ReportedKey)
	if err != nil || !ok || raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.Warn("discarding unreadable reported list", "error", err)
		return nil
	}
	return list
}

// NewToken returns a random UUID-shaped token, preferring the crypto source.
func NewToken() string {
	if u, err := uuid.NewRandom(); err == nil {
		return u.String()
	}
	return weakToken()
}

// weakToken builds a version-4-shaped UUID from math/rand. Collisions are far
// more likely than with crypto/rand; acceptable for reaction dedup only.
func weakToken() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
