package gateway

import (
	"strings"
	"sync/atomic"
)

// KeyPool hands out API keys round-robin so load spreads across a provider's
// configured credentials. Construction de-duplicates and drops blanks.
type KeyPool struct {
	keys []string
	next atomic.Uint64
}

func NewKeyPool(keys []string) *KeyPool {
	seen := make(map[string]struct{}, len(keys))
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	return &KeyPool{keys: cleaned}
}

// Next returns the next key in rotation, "" when the pool is empty.
func (p *KeyPool) Next() string {
	if len(p.keys) == 0 {
		return ""
	}
	n := p.next.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))]
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}
