package catalog

import "sync"

// Secret content unlocked by sharing exports.
const (
	SecretGoldenFilter = "secret.filter.golden"
	SecretRarePack     = "secret.stickers.rare"
)

// ShareUnlocks maps a share count to the secret content it unlocks.
var ShareUnlocks = map[int]string{
	5:  SecretGoldenFilter,
	10: SecretRarePack,
}

// Oracle answers whether premium or secret content may be used.
type Oracle interface {
	IsUnlocked(id string) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(id string) bool

func (f OracleFunc) IsUnlocked(id string) bool { return f(id) }

// Entitlements is an in-memory Oracle. It is safe for concurrent use.
type Entitlements struct {
	mu        sync.RWMutex
	unlimited bool
	unlocked  map[string]struct{}
	shares    int
}

// NewEntitlements returns entitlements with the given content already unlocked.
func NewEntitlements(unlocked ...string) *Entitlements {
	e := &Entitlements{unlocked: make(map[string]struct{})}
	for _, id := range unlocked {
		e.unlocked[id] = struct{}{}
	}
	return e
}

// IsUnlocked implements Oracle.
func (e *Entitlements) IsUnlocked(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.unlimited {
		return true
	}
	_, ok := e.unlocked[id]
	return ok
}

// SetUnlimited grants or revokes access to every piece of content.
func (e *Entitlements) SetUnlimited(v bool) {
	e.mu.Lock()
	e.unlimited = v
	e.mu.Unlock()
}

// Unlock records a purchase or any other grant of content.
func (e *Entitlements) Unlock(id string) {
	e.mu.Lock()
	e.unlocked[id] = struct{}{}
	e.mu.Unlock()
}

// Share counts one more shared export and returns the secret content ids
// unlocked by reaching the new count.
func (e *Entitlements) Share() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shares++
	id, ok := ShareUnlocks[e.shares]
	if !ok {
		return nil
	}
	e.unlocked[id] = struct{}{}
	return []string{id}
}

// Shares returns the number of shared exports.
func (e *Entitlements) Shares() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shares
}

// Unlocked returns the explicitly unlocked content ids.
func (e *Entitlements) Unlocked() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.unlocked))
	for id := range e.unlocked {
		ids = append(ids, id)
	}
	return ids
}
