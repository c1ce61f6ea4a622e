package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/remote"
)

// NoticeTTL is how long a success notice stays visible.
const NoticeTTL = 5 * time.Second

// Model is the editable document the controller persists.
type Model[D any] interface {
	Document() D
	Load(doc D) error
	Reset()
	Snapshot() string
	ID() string
	SetID(id string)
	Name() string
	Validate() error
	Version() uint64
	Subscribe(fn func()) func()
}

// Store is the remote collection documents are saved to.
type Store[D any] interface {
	Get(ctx context.Context, id string) (D, error)
	Create(ctx context.Context, doc D) (string, error)
	Update(ctx context.Context, id string, doc D) error
}

// Codec converts documents to and from the portable file format.
type Codec[D any] interface {
	Export(doc D) ([]byte, error)
	Import(data []byte) (D, error)
}

// Signal receives the "has unsaved changes" flag.
type Signal interface {
	SetUnsaved(unsaved bool) error
}

// SaveRequest is a save taken from the document at BeginSave time.
type SaveRequest[D any] struct {
	// ID is the document to update; empty creates a new one.
	ID       string
	Doc      D
	Override bool

	snapshot string
}

type SaveResult struct {
	ID  string
	Err error
}

// LoadTicket identifies one load. Only the newest ticket completes.
type LoadTicket struct {
	ID  string
	Seq uint64
}

// Controller drives the persistence lifecycle of one document. It is
// not safe for concurrent use: the host calls it from its event loop and
// runs only Send and Fetch off-loop.
type Controller[D any] struct {
	model  Model[D]
	store  Store[D]
	codec  Codec[D]
	signal Signal
	logger *slog.Logger
	now    func() time.Time

	phase      Phase
	resume     Phase
	beforeLoad Phase
	pending    Action
	baseline   string
	conflictID string
	saving     *SaveRequest[D]
	loadSeq    uint64
	alert      *Error
	notice     string
	noticeAt   time.Time
	published  bool

	unsubscribe func()
}

// New starts a controller in Blank with the model's current snapshot as
// baseline. A nil logger discards.
func New[D any](model Model[D], store Store[D], codec Codec[D], logger *slog.Logger) *Controller[D] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller[D]{
		model:    model,
		store:    store,
		codec:    codec,
		logger:   logger,
		now:      time.Now,
		baseline: model.Snapshot(),
	}
	c.phase = c.settled()
	c.unsubscribe = model.Subscribe(c.onChange)
	return c
}

// SetSignal attaches the unsaved-changes flag and publishes the current
// value to it.
func (c *Controller[D]) SetSignal(s Signal) {
	c.signal = s
	c.published = !c.Unsaved()
	c.publish()
}

// Close detaches from the model.
func (c *Controller[D]) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller[D]) Model() Model[D] { return c.model }
func (c *Controller[D]) Phase() Phase    { return c.phase }

// ConflictID is the existing document offered for override.
func (c *Controller[D]) ConflictID() string { return c.conflictID }

// Pending is the action awaiting discard confirmation.
func (c *Controller[D]) Pending() Action { return c.pending }

// Unsaved reports whether the document differs from its baseline.
func (c *Controller[D]) Unsaved() bool {
	return c.model.Snapshot() != c.baseline
}

// CanEdit reports whether the host should accept document edits.
func (c *Controller[D]) CanEdit() bool {
	return c.phase != Loading
}

// Alert is the last failure to show inline, if any.
func (c *Controller[D]) Alert() *Error { return c.alert }

func (c *Controller[D]) DismissAlert() { c.alert = nil }

// Notice returns the current success notice until NoticeTTL has passed.
func (c *Controller[D]) Notice() string {
	if c.notice == "" || c.now().Sub(c.noticeAt) >= NoticeTTL {
		return ""
	}
	return c.notice
}

func (c *Controller[D]) setNotice(msg string) {
	c.notice = msg
	c.noticeAt = c.now()
}

// settled is the resting phase for the current snapshot.
func (c *Controller[D]) settled() Phase {
	switch {
	case c.Unsaved():
		return Dirty
	case c.model.ID() == "":
		return Blank
	}
	return Clean
}

func (c *Controller[D]) onChange() {
	switch c.phase {
	case Blank, Clean, Dirty, Failed:
		c.phase = c.settled()
	case Loading:
		return
	}
	c.publish()
}

func (c *Controller[D]) publish() {
	unsaved := c.Unsaved()
	if c.signal == nil || unsaved == c.published {
		return
	}
	c.published = unsaved
	if err := c.signal.SetUnsaved(unsaved); err != nil {
		c.logger.Warn("publish unsaved flag", "err", err)
	}
}

// BeginSave validates the document and moves to Saving. The returned
// request carries the exact content that will be sent; it becomes the
// baseline when the save succeeds.
func (c *Controller[D]) BeginSave() (*SaveRequest[D], error) {
	switch c.phase {
	case Loading, Saving:
		return nil, ErrBusy
	case Dirty, Failed:
	case ConflictPending, ConfirmDiscard:
		return nil, ErrWrongPhase
	default:
		return nil, ErrNothingToSave
	}
	if err := c.model.Validate(); err != nil {
		e := validationError(err)
		c.alert = e
		return nil, e
	}
	req := &SaveRequest[D]{
		ID:       c.model.ID(),
		Doc:      c.model.Document(),
		snapshot: c.model.Snapshot(),
	}
	c.saving = req
	c.phase = Saving
	c.alert = nil
	return req, nil
}

// BeginOverride turns a pending name conflict into an update of the
// existing document.
func (c *Controller[D]) BeginOverride() (*SaveRequest[D], error) {
	if c.phase != ConflictPending {
		if c.phase.Busy() {
			return nil, ErrBusy
		}
		return nil, ErrWrongPhase
	}
	req := &SaveRequest[D]{
		ID:       c.conflictID,
		Doc:      c.model.Document(),
		Override: true,
		snapshot: c.model.Snapshot(),
	}
	c.saving = req
	c.phase = Saving
	return req, nil
}

// CancelConflict drops the override offer and returns to editing.
func (c *Controller[D]) CancelConflict() error {
	if c.phase != ConflictPending {
		return ErrWrongPhase
	}
	c.conflictID = ""
	c.phase = c.settled()
	return nil
}

// Send performs a save request against the store. It touches no
// controller state and may run off the event loop.
func (c *Controller[D]) Send(ctx context.Context, req *SaveRequest[D]) SaveResult {
	if req.ID == "" {
		id, err := c.store.Create(ctx, req.Doc)
		return SaveResult{ID: id, Err: err}
	}
	return SaveResult{ID: req.ID, Err: c.store.Update(ctx, req.ID, req.Doc)}
}

// CompleteSave applies the outcome of a request from BeginSave or
// BeginOverride.
func (c *Controller[D]) CompleteSave(req *SaveRequest[D], res SaveResult) error {
	if c.phase != Saving || c.saving != req {
		return ErrWrongPhase
	}
	c.saving = nil

	if res.Err == nil {
		c.model.SetID(res.ID)
		c.baseline = req.snapshot
		c.conflictID = ""
		c.alert = nil
		c.phase = c.settled()
		c.setNotice("Saved")
		c.publish()
		c.logger.Info("document saved", "id", res.ID, "override", req.Override, "phase", c.phase.String())
		return nil
	}

	// Only a create can collide with another document's name.
	if !req.Override && req.ID == "" {
		if id, ok := remote.ConflictID(res.Err); ok {
			c.conflictID = id
			c.phase = ConflictPending
			c.logger.Info("save conflict", "existing_id", id)
			return &Error{Kind: NameConflict, Err: res.Err}
		}
	}
	e := &Error{Kind: SaveFailed, Err: res.Err}
	c.alert = e
	c.conflictID = ""
	c.phase = Failed
	c.logger.Warn("save failed", "id", req.ID, "err", res.Err)
	return e
}

// Save runs a full save and blocks until it completes.
func (c *Controller[D]) Save(ctx context.Context) error {
	req, err := c.BeginSave()
	if err != nil {
		return err
	}
	return c.CompleteSave(req, c.Send(ctx, req))
}

// Override resolves a pending conflict and blocks until it completes.
func (c *Controller[D]) Override(ctx context.Context) error {
	req, err := c.BeginOverride()
	if err != nil {
		return err
	}
	return c.CompleteSave(req, c.Send(ctx, req))
}

// BeginLoad starts loading id. A load issued while another is pending
// supersedes it.
func (c *Controller[D]) BeginLoad(id string) (LoadTicket, error) {
	switch c.phase {
	case Saving:
		return LoadTicket{}, ErrBusy
	case ConflictPending, ConfirmDiscard:
		return LoadTicket{}, ErrWrongPhase
	case Loading:
	default:
		c.beforeLoad = c.phase
	}
	c.loadSeq++
	c.phase = Loading
	return LoadTicket{ID: id, Seq: c.loadSeq}, nil
}

// Fetch reads the ticket's document from the store. Like Send it may run
// off the event loop.
func (c *Controller[D]) Fetch(ctx context.Context, t LoadTicket) (D, error) {
	return c.store.Get(ctx, t.ID)
}

// CompleteLoad installs a fetched document. Results of superseded
// tickets are discarded with ErrStaleLoad.
func (c *Controller[D]) CompleteLoad(t LoadTicket, doc D, err error) error {
	if c.phase != Loading || t.Seq != c.loadSeq {
		c.logger.Debug("discarding stale load", "id", t.ID, "seq", t.Seq, "current", c.loadSeq)
		return ErrStaleLoad
	}
	if err == nil {
		err = c.model.Load(doc)
	}
	if err != nil {
		c.phase = c.beforeLoad
		e := &Error{Kind: LoadFailed, Err: err}
		c.alert = e
		c.logger.Warn("load failed", "id", t.ID, "err", err)
		return e
	}
	if c.model.ID() == "" {
		c.model.SetID(t.ID)
	}
	c.baseline = c.model.Snapshot()
	c.alert = nil
	c.conflictID = ""
	c.phase = Clean
	c.publish()
	c.logger.Info("document loaded", "id", t.ID)
	return nil
}

// Open loads id and blocks until it completes.
func (c *Controller[D]) Open(ctx context.Context, id string) error {
	t, err := c.BeginLoad(id)
	if err != nil {
		return err
	}
	doc, err := c.Fetch(ctx, t)
	return c.CompleteLoad(t, doc, err)
}

// RequestNew starts a fresh document. It reports true when a discard
// confirmation is now pending instead.
func (c *Controller[D]) RequestNew() (bool, error) {
	if c.phase.Busy() {
		return false, ErrBusy
	}
	if c.Unsaved() {
		c.ask(ActionNew)
		return true, nil
	}
	c.apply(ActionNew)
	return false, nil
}

// RequestClear always asks for confirmation.
func (c *Controller[D]) RequestClear() error {
	if c.phase.Busy() {
		return ErrBusy
	}
	c.ask(ActionClear)
	return nil
}

// RequestLeave reports true when leaving must be confirmed first.
func (c *Controller[D]) RequestLeave() bool {
	if !c.Unsaved() {
		return false
	}
	c.ask(ActionLeave)
	return true
}

func (c *Controller[D]) ask(a Action) {
	if c.phase != ConfirmDiscard {
		c.resume = c.phase
	}
	c.pending = a
	c.phase = ConfirmDiscard
}

// ConfirmDiscard carries out the pending action and returns it.
func (c *Controller[D]) ConfirmDiscard() (Action, error) {
	if c.phase != ConfirmDiscard {
		return NoAction, ErrWrongPhase
	}
	a := c.pending
	c.pending = NoAction
	c.phase = c.resume
	c.apply(a)
	return a, nil
}

// CancelDiscard keeps the document and returns to the prior phase.
func (c *Controller[D]) CancelDiscard() error {
	if c.phase != ConfirmDiscard {
		return ErrWrongPhase
	}
	c.pending = NoAction
	c.phase = c.resume
	return nil
}

func (c *Controller[D]) apply(a Action) {
	switch a {
	case ActionNew, ActionClear, ActionLeave:
		c.model.Reset()
	default:
		return
	}
	c.baseline = c.model.Snapshot()
	c.conflictID = ""
	c.alert = nil
	c.phase = c.settled()
	c.publish()
	c.logger.Debug("document discarded", "action", a.String())
}

// Export serializes the current document.
func (c *Controller[D]) Export() ([]byte, error) {
	return c.codec.Export(c.model.Document())
}

// Import replaces the document with the content of data. The document
// keeps its remote id; on any error it is left untouched.
func (c *Controller[D]) Import(data []byte) error {
	switch c.phase {
	case Loading, Saving:
		return ErrBusy
	case ConflictPending, ConfirmDiscard:
		return ErrWrongPhase
	}
	doc, err := c.codec.Import(data)
	if err == nil {
		id := c.model.ID()
		if err = c.model.Load(doc); err == nil {
			c.model.SetID(id)
		}
	}
	if err != nil {
		e := &Error{Kind: ImportInvalid, Err: err}
		c.alert = e
		return e
	}
	c.alert = nil
	c.phase = c.settled()
	c.publish()
	c.setNotice("Imported")
	return nil
}

func validationError(err error) *Error {
	if errors.Is(err, document.ErrFolderRequired) {
		return &Error{Kind: FolderRequired, Err: err}
	}
	return &Error{Kind: NameRequired, Err: err}
}
