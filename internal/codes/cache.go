// SPDX-License-Identifier: Apache-2.0

// Package codes implements the in-memory exchange code cache.
//
// An exchange code is a short-lived, single-use opaque code minted for
// either session handoff (retrieve an existing session token without
// re-entering a password) or password reset (null the password hash to
// allow setting a new one). Codes live only in process memory: they are
// lost on restart, which is acceptable given their short lifetime.
package codes

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TTL is the fixed lifetime of every exchange code.
const TTL = 120 * time.Second

// Kind tags an exchange code with its purpose. The two kinds form disjoint
// namespaces: a user may hold at most one live code of each kind, and
// consuming a code behaves differently per kind.
type Kind int

const (
	// KindSessionHandoff codes hand an existing session token to a second
	// device without re-entering credentials.
	KindSessionHandoff Kind = iota

	// KindPasswordReset codes authenticate a password reset: consuming one
	// nulls the account's password hash.
	KindPasswordReset
)

// Length returns the wire length of codes of this kind. The lengths keep
// the two namespaces disjoint on the wire and compatible with existing
// clients.
func (k Kind) Length() int {
	if k == KindPasswordReset {
		return 7
	}
	return 5
}

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	if k == KindPasswordReset {
		return "password-reset"
	}
	return "session-handoff"
}

type userKind struct {
	userID string
	kind   Kind
}

type entry struct {
	userID string
	kind   Kind
	timer  *time.Timer
}

// Cache is a concurrency-safe map from exchange code to its owner, with
// per-entry TTL eviction. All access is serialized by a single mutex;
// expiry callbacks take the same mutex and re-check entry identity, so an
// expiring code and a concurrent Take resolve to exactly one outcome.
//
// The zero value is not usable; construct with NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	byUser  map[userKind]string

	ttl time.Duration
}

// NewCache constructs an empty cache whose entries expire after ttl.
// Production callers pass [TTL]; tests may shorten it.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		byUser:  make(map[userKind]string),
		ttl:     ttl,
	}
}

// Put mints a new code of the given kind for userID and returns it.
// Any live code of the same kind for the same user is cancelled first, so
// the single-code-per-user-per-kind invariant holds by construction.
func (c *Cache) Put(userID string, kind Kind) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(userID, kind)

	code := c.generateLocked(kind)
	e := &entry{userID: userID, kind: kind}
	e.timer = time.AfterFunc(c.ttl, func() { c.expire(code, e) })

	c.entries[code] = e
	c.byUser[userKind{userID, kind}] = code

	return code
}

// Peek reports the owner and kind of a live code without consuming it.
func (c *Cache) Peek(code string) (userID string, kind Kind, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[code]
	if !ok {
		return "", 0, false
	}
	return e.userID, e.kind, true
}

// Take consumes a live code, cancelling its expiry timer. Exactly one of
// any number of concurrent callers succeeds; the rest observe ok == false.
func (c *Cache) Take(code string) (userID string, kind Kind, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[code]
	if !ok {
		return "", 0, false
	}

	e.timer.Stop()
	c.removeLocked(code, e)

	return e.userID, e.kind, true
}

// Cancel evicts the live code of the given kind for userID, if any.
func (c *Cache) Cancel(userID string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked(userID, kind)
}

// CancelAll evicts every live code for userID across both kinds.
func (c *Cache) CancelAll(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked(userID, KindSessionHandoff)
	c.cancelLocked(userID, KindPasswordReset)
}

// Has reports whether userID currently holds a live code of the given kind.
func (c *Cache) Has(userID string, kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.byUser[userKind{userID, kind}]
	return ok
}

// Len returns the number of live codes. Intended for tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// expire is the timer callback. It deletes the entry only if the code still
// maps to the same entry: a code string that was consumed and re-minted in
// the meantime must not be evicted by the stale timer.
func (c *Cache) expire(code string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[code]; ok && current == e {
		c.removeLocked(code, e)
	}
}

func (c *Cache) cancelLocked(userID string, kind Kind) {
	code, ok := c.byUser[userKind{userID, kind}]
	if !ok {
		return
	}

	e := c.entries[code]
	e.timer.Stop()
	c.removeLocked(code, e)
}

func (c *Cache) removeLocked(code string, e *entry) {
	delete(c.entries, code)
	delete(c.byUser, userKind{e.userID, e.kind})
}

// generateLocked draws fresh code material until it finds a string not
// already present in the map. The first characters of a UUID are hex, so
// codes stay short and human-typable.
func (c *Cache) generateLocked(kind Kind) string {
	for {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		code := raw[:kind.Length()]
		if _, exists := c.entries[code]; !exists {
			return code
		}
	}
}
