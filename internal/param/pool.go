package param

import "sync"

// stringPool interns attribute names and string payloads so that equal
// strings share one backing array for the life of the process.
type stringPool struct {
	mu      sync.RWMutex
	strings map[string]string
}

var pool = &stringPool{strings: make(map[string]string)}

// Intern returns the canonical copy of s. It is safe for concurrent use.
func Intern(s string) string {
	pool.mu.RLock()
	if u, ok := pool.strings[s]; ok {
		pool.mu.RUnlock()
		return u
	}
	pool.mu.RUnlock()

	pool.mu.Lock()
	defer pool.mu.Unlock()
	if u, ok := pool.strings[s]; ok {
		return u
	}
	// Clone so the pool never keeps a caller's larger backing array alive.
	u := string([]byte(s))
	pool.strings[u] = u
	return u
}

// PoolSize returns the number of distinct interned strings.
func PoolSize() int {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	return len(pool.strings)
}
