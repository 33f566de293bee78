package crawler

import "sync/atomic"

// defaultUserAgents is the rotation pool used when the configuration does
// not supply its own. Current desktop browser strings; listing sites serve
// the full page markup to all of them.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// userAgentRotor hands out pool entries round-robin. Safe for concurrent use.
type userAgentRotor struct {
	pool []string
	next atomic.Uint64
}

func newUserAgentRotor(pool []string) *userAgentRotor {
	if len(pool) == 0 {
		pool = defaultUserAgents
	}
	return &userAgentRotor{pool: pool}
}

// Next returns the next user agent in rotation.
func (r *userAgentRotor) Next() string {
	n := r.next.Add(1) - 1
	return r.pool[n%uint64(len(r.pool))]
}
