package pipeline

import (
	"sync"
	"time"
)

// NoticeKind styles a notice.
type NoticeKind string

const (
	NoticeLoading NoticeKind = "loading"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

const (
	MsgClearing = "Cleaning browsing data..."
	MsgCleared  = "History & Cache Cleared (24h)"
	MsgClearErr = "Could not clear browsing data"
)

// Notice is a transient status message. Loading notices stay until
// replaced; the others expire.
type Notice struct {
	ID        uint64     `json:"id"`
	Kind      NoticeKind `json:"type"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at,omitzero"`
}

// Notices holds the single current notice. Posting replaces it.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	seq     uint64
	current *Notice
}

func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Notices{ttl: ttl, now: time.Now}
}

// Post replaces the current notice and returns it.
func (n *Notices) Post(kind NoticeKind, msg string) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	now := n.now()
	nt := Notice{ID: n.seq, Kind: kind, Message: msg, CreatedAt: now}
	if kind != NoticeLoading {
		nt.ExpiresAt = now.Add(n.ttl)
	}
	n.current = &nt
	return nt
}

// Current returns the live notice, if any.
func (n *Notices) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	if !n.current.ExpiresAt.IsZero() && !n.now().Before(n.current.ExpiresAt) {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}

// Dismiss clears the notice if it is still the one with id.
func (n *Notices) Dismiss(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
	}
}
