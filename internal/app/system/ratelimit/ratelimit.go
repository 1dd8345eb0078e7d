// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed holds one token bucket per key (an IP, an email). Buckets idle for
// longer than the refill period are dropped by Sweep, which Allow also runs
// once per period. It is safe for concurrent use.
type Keyed struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewKeyed allows burst events per key, refilled evenly over per.
func NewKeyed(burst int, per time.Duration) *Keyed {
	return &Keyed{
		buckets: make(map[string]*bucket),
		every:   rate.Every(per / time.Duration(burst)),
		burst:   burst,
		idle:    per,
		now:     time.Now,
	}
}

func (k *Keyed) get(key string) *bucket {
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(k.every, k.burst)}
		k.buckets[key] = b
	}
	b.seen = k.now()
	return b
}

// Allow spends one token for key. It returns false with the wait until the
// next token when the bucket is empty.
func (k *Keyed) Allow(key string) (bool, time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > k.idle {
		k.sweepLocked(now)
	}
	b := k.get(key)
	res := b.lim.ReserveN(now, 1)
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Reset forgets key.
func (k *Keyed) Reset(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.buckets, key)
}

// Sweep drops idle buckets and reports how many remain.
func (k *Keyed) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sweepLocked(k.now())
}

func (k *Keyed) sweepLocked(now time.Time) int {
	k.lastSweep = now
	cutoff := now.Add(-k.idle)
	for key, b := range k.buckets {
		if b.seen.Before(cutoff) {
			delete(k.buckets, key)
		}
	}
	return len(k.buckets)
}

// ClientIP returns the caller's address. chi's RealIP middleware has already
// folded X-Forwarded-For and X-Real-IP into RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles password sign-in attempts by client IP and by the
// email being tried, so neither a single client nor a spread of clients can
// grind one account.
type LoginLimiter struct {
	byIP    *Keyed
	byEmail *Keyed
}

// NewLoginLimiter allows ipBurst attempts per IP per ipPer and emailBurst
// attempts per account per emailPer.
func NewLoginLimiter(ipBurst int, ipPer time.Duration, emailBurst int, emailPer time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:    NewKeyed(ipBurst, ipPer),
		byEmail: NewKeyed(emailBurst, emailPer),
	}
}

// NewDefaultLoginLimiter allows 10 attempts a minute per IP and 5 per five
// minutes per account.
func NewDefaultLoginLimiter() *LoginLimiter {
	return NewLoginLimiter(10, time.Minute, 5, 5*time.Minute)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check spends an attempt for the request's IP and for email. When refused,
// retry is how long the caller should wait.
func (l *LoginLimiter) Check(r *http.Request, email string) (ok bool, retry time.Duration) {
	if l == nil {
		return true, 0
	}
	if ok, d := l.byIP.Allow(ClientIP(r)); !ok {
		return false, d
	}
	if key := emailKey(email); key != "" {
		if ok, d := l.byEmail.Allow(key); !ok {
			return false, d
		}
	}
	return true, 0
}

// Succeeded clears the account's budget after a good sign-in.
func (l *LoginLimiter) Succeeded(email string) {
	if l == nil {
		return
	}
	l.byEmail.Reset(emailKey(email))
}

// Sweep drops idle buckets from both limiters.
func (l *LoginLimiter) Sweep() {
	if l == nil {
		return
	}
	l.byIP.Sweep()
	l.byEmail.Sweep()
}
