// Package gesture turns a stream of drag events into discrete tree
// operations. Holding over an item reorders; dropping on it before the hold
// elapses merges or moves.
package gesture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/startpage/internal/dashboard"
)

const (
	DefaultReorderHold = 400 * time.Millisecond
	DefaultHeaderHold  = 500 * time.Millisecond
)

type State string

const (
	StateIdle           State = "idle"
	StateDragging       State = "dragging"
	StateReorderPending State = "reorder_pending"
)

// Notices reported with drop results.
const (
	NoticeMovedToFolder    = "Moved to folder"
	NoticeFolderCreated    = "Folder created"
	NoticeMovedToFavorites = "Moved to Favorites"
)

// Mutator is the subset of the tree store the resolver drives.
type Mutator interface {
	MoveItem(ctx context.Context, itemID, targetID string) (dashboard.Document, bool, error)
	ReorderItem(ctx context.Context, sourceID, targetID string) (dashboard.Document, bool, error)
	CreateFolderWithItems(ctx context.Context, sourceID, targetID string) (dashboard.Document, bool, error)
}

type Options struct {
	ReorderHold time.Duration
	HeaderHold  time.Duration
	Clock       Clock
	Log         *slog.Logger
	// Timeout bounds tree store calls made from timer callbacks.
	Timeout time.Duration
}

// Result describes what a drop did.
type Result struct {
	Document dashboard.Document
	Changed  bool
	Notice   string
}

// Reorder records the last hold-to-reorder that fired.
type Reorder struct {
	SourceID string    `json:"source_id"`
	TargetID string    `json:"target_id"`
	At       time.Time `json:"at"`
	Error    string    `json:"error,omitempty"`
}

// Snapshot is a point-in-time view of the resolver.
type Snapshot struct {
	State          State    `json:"state"`
	DraggedID      string   `json:"dragged_id,omitempty"`
	HoverID        string   `json:"hover_id,omitempty"`
	ActiveFolderID string   `json:"active_folder_id,omitempty"`
	ReorderPending bool     `json:"reorder_pending"`
	HeaderPending  bool     `json:"header_pending"`
	LastReorder    *Reorder `json:"last_reorder,omitempty"`
}

// Resolver is the drag state machine for one UI surface. All methods are
// safe for concurrent use; tree store calls are made without holding the
// resolver lock.
type Resolver struct {
	store       Mutator
	clock       Clock
	log         *slog.Logger
	reorderHold time.Duration
	headerHold  time.Duration
	timeout     time.Duration

	mu           sync.Mutex
	state        State
	dragged      string
	hover        string
	activeFolder string
	reorderTimer Timer
	reorderGen   uint64
	headerTimer  Timer
	headerGen    uint64
	lastReorder  *Reorder
}

func NewResolver(store Mutator, opts Options) *Resolver {
	if opts.ReorderHold <= 0 {
		opts.ReorderHold = DefaultReorderHold
	}
	if opts.HeaderHold <= 0 {
		opts.HeaderHold = DefaultHeaderHold
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Resolver{
		store:       store,
		clock:       opts.Clock,
		log:         opts.Log.With("component", "gesture"),
		reorderHold: opts.ReorderHold,
		headerHold:  opts.HeaderHold,
		timeout:     opts.Timeout,
		state:       StateIdle,
	}
}

// DragStart begins a drag of it. Action items cannot be dragged.
func (r *Resolver) DragStart(it dashboard.Item) {
	if it.IsAction() || it.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearTimersLocked()
	r.dragged = it.ID
	r.hover = ""
	r.state = StateDragging
}

// EnterItem starts the hold-to-reorder timer for it, replacing any
// pending one.
func (r *Resolver) EnterItem(it dashboard.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateIdle || it.ID == r.dragged || it.IsAction() {
		return
	}
	r.stopReorderLocked()
	r.hover = it.ID
	r.state = StateReorderPending
	r.reorderGen++
	gen := r.reorderGen
	r.reorderTimer = r.clock.AfterFunc(r.reorderHold, func() { r.fireReorder(gen) })
}

// LeaveItem cancels a pending reorder.
func (r *Resolver) LeaveItem() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateIdle {
		return
	}
	r.stopReorderLocked()
	r.hover = ""
	r.state = StateDragging
}

func (r *Resolver) fireReorder(gen uint64) {
	r.mu.Lock()
	if gen != r.reorderGen || r.state != StateReorderPending {
		r.mu.Unlock()
		return
	}
	src, tgt := r.dragged, r.hover
	r.reorderTimer = nil
	// The drag continues after a reorder.
	r.state = StateDragging
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	doc, changed, err := r.store.ReorderItem(ctx, src, tgt)

	rec := &Reorder{SourceID: src, TargetID: tgt, At: time.Now()}
	if err != nil {
		rec.Error = err.Error()
		r.log.Error("reorder failed", "source", src, "target", tgt, "error", err)
	} else {
		r.log.Debug("reordered", "source", src, "target", tgt, "changed", changed)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReorder = rec
	if err == nil && changed {
		r.syncLocked(doc)
	}
}

// DropOnItem ends the drag over target. Dropping before the hold elapses
// means move into a folder target, or merge with any other target.
func (r *Resolver) DropOnItem(ctx context.Context, target dashboard.Item) (Result, error) {
	source := r.endDrag()
	if source == "" || source == target.ID || target.IsAction() {
		return Result{}, nil
	}

	if target.IsFolder() {
		doc, changed, err := r.store.MoveItem(ctx, source, target.ID)
		if err != nil {
			return Result{}, err
		}
		r.Sync(doc)
		return Result{Document: doc, Changed: changed, Notice: NoticeMovedToFolder}, nil
	}
	doc, changed, err := r.store.CreateFolderWithItems(ctx, source, target.ID)
	if err != nil {
		return Result{}, err
	}
	r.Sync(doc)
	return Result{Document: doc, Changed: changed, Notice: NoticeFolderCreated}, nil
}

// DropOnBackground ends the drag on empty space. At the root view the item
// goes to Favorites; inside a folder view nothing happens.
func (r *Resolver) DropOnBackground(ctx context.Context) (Result, error) {
	r.mu.Lock()
	inFolder := r.activeFolder != ""
	source := r.dragged
	r.resetLocked()
	r.mu.Unlock()

	if source == "" || inFolder {
		return Result{}, nil
	}
	doc, changed, err := r.store.MoveItem(ctx, source, dashboard.TargetFavorites)
	if err != nil {
		return Result{}, err
	}
	r.Sync(doc)
	return Result{Document: doc, Changed: changed}, nil
}

// EnterHeader starts the timer that leaves the folder view while an item
// hovers over the header. Without a drag it does nothing.
func (r *Resolver) EnterHeader() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateIdle || r.activeFolder == "" {
		return
	}
	r.stopHeaderLocked()
	r.headerGen++
	gen := r.headerGen
	r.headerTimer = r.clock.AfterFunc(r.headerHold, func() { r.fireHeader(gen) })
}

// LeaveHeader cancels the header timer.
func (r *Resolver) LeaveHeader() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopHeaderLocked()
}

func (r *Resolver) fireHeader(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.headerGen {
		return
	}
	r.headerTimer = nil
	// Leaving the folder is a view change; a pending reorder goes with it.
	r.clearTimersLocked()
	r.activeFolder = ""
}

// DropOnHeader moves the dragged item to Favorites and leaves the folder
// view.
func (r *Resolver) DropOnHeader(ctx context.Context) (Result, error) {
	source := r.endDrag()
	if source == "" {
		return Result{}, nil
	}
	doc, changed, err := r.store.MoveItem(ctx, source, dashboard.TargetFavorites)
	if err != nil {
		return Result{}, err
	}
	r.GoHome()
	return Result{Document: doc, Changed: changed, Notice: NoticeMovedToFavorites}, nil
}

// DragEnd abandons the drag without a drop.
func (r *Resolver) DragEnd() {
	r.endDrag()
}

// Close ends any drag and leaves the folder view.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
	r.activeFolder = ""
}

// OpenFolder switches the view to a folder.
func (r *Resolver) OpenFolder(folderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearTimersLocked()
	r.activeFolder = folderID
}

// GoHome switches the view back to the root.
func (r *Resolver) GoHome() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearTimersLocked()
	r.activeFolder = ""
}

// Sync re-resolves the active folder against doc and returns to the root
// view when it no longer exists.
func (r *Resolver) Sync(doc dashboard.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncLocked(doc)
}

func (r *Resolver) syncLocked(doc dashboard.Document) {
	if r.activeFolder == "" {
		return
	}
	if _, ok := doc.FindFolder(r.activeFolder); !ok {
		r.log.Debug("active folder vanished", "folder_id", r.activeFolder)
		r.activeFolder = ""
		r.clearTimersLocked()
	}
}

// ActiveFolder returns the folder currently open, if any.
func (r *Resolver) ActiveFolder() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeFolder
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		State:          r.state,
		DraggedID:      r.dragged,
		HoverID:        r.hover,
		ActiveFolderID: r.activeFolder,
		ReorderPending: r.reorderTimer != nil,
		HeaderPending:  r.headerTimer != nil,
	}
	if r.lastReorder != nil {
		rec := *r.lastReorder
		s.LastReorder = &rec
	}
	return s
}

// endDrag clears timers and drag state and returns the dragged id.
func (r *Resolver) endDrag() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	source := r.dragged
	r.resetLocked()
	return source
}

func (r *Resolver) resetLocked() {
	r.clearTimersLocked()
	r.dragged = ""
	r.hover = ""
	r.state = StateIdle
}

func (r *Resolver) clearTimersLocked() {
	r.stopReorderLocked()
	r.stopHeaderLocked()
	if r.state == StateReorderPending {
		r.state = StateDragging
		r.hover = ""
	}
}

func (r *Resolver) stopReorderLocked() {
	// Bumping the generation voids a callback that already started.
	r.reorderGen++
	if r.reorderTimer != nil {
		r.reorderTimer.Stop()
		r.reorderTimer = nil
	}
}

func (r *Resolver) stopHeaderLocked() {
	r.headerGen++
	if r.headerTimer != nil {
		r.headerTimer.Stop()
		r.headerTimer = nil
	}
}
