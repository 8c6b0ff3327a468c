package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-cms/internal/domain/page"
	"storefront-cms/internal/infra/metrics"
)

type State int

const (
	StateClean State = iota
	StateDirty
)

func (s State) String() string {
	if s == StateDirty {
		return "dirty"
	}
	return "clean"
}

type SaveStatus string

const (
	SaveSaved      SaveStatus = "saved"
	SaveNoChanges  SaveStatus = "no_changes"
	SaveSuperseded SaveStatus = "superseded"
	SaveInProgress SaveStatus = "in_progress"
)

type SaveResult struct {
	Status   SaveStatus `json:"status"`
	Revision uint64     `json:"revision"`
	Page     *page.Page `json:"-"`
}

const (
	saveModeManual   = "manual"
	saveModeAutosave = "autosave"
	saveModeFollowUp = "followup"
)

// PageWriter is the part of page.Store a session persists through.
type PageWriter interface {
	UpdatePage(ctx context.Context, id string, upd page.Update) (*page.Page, error)
}

type Options struct {
	Defaults         *DefaultsResolver
	Library          *Library
	IDs              IDGenerator
	Scheduler        Scheduler
	AutosaveInterval time.Duration
	// SaveTimeout bounds each UpdatePage call. Zero means no bound beyond ctx.
	SaveTimeout time.Duration
	Logger      logrus.FieldLogger
}

// Session is one editing session over a page's component list. All methods
// are safe for concurrent use; the lock is released while the store is
// called, so edits made during a save bump the revision and keep the
// session dirty once that save lands.
type Session struct {
	mu sync.Mutex

	pageID string
	store  PageWriter

	items    []ComponentItem
	snapshot []ComponentItem
	revision uint64
	// inflight is closed when the running save returns; nil when idle.
	inflight chan struct{}

	ids      *UniqueIDs
	defaults *DefaultsResolver
	library  *Library

	scheduler      Scheduler
	interval       time.Duration
	cancelAutosave func()

	saveTimeout time.Duration
	disposed    bool
	logger      logrus.FieldLogger
}

// NewSession decodes content and starts a clean session over it. Tags that
// fail to decode are logged and dropped; the next save rewrites the page
// without them.
func NewSession(pageID, content string, store PageWriter, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.WithField("page_id", pageID)

	items := DecodeContent(content, logger)
	existing := make([]string, len(items))
	for i, it := range items {
		existing[i] = it.ID
	}

	s := &Session{
		pageID:      pageID,
		store:       store,
		items:       items,
		snapshot:    cloneItems(items),
		ids:         NewUniqueIDs(opts.IDs, existing...),
		defaults:    opts.Defaults,
		library:     opts.Library,
		scheduler:   opts.Scheduler,
		interval:    opts.AutosaveInterval,
		saveTimeout: opts.SaveTimeout,
		logger:      logger,
	}
	if s.defaults == nil {
		s.defaults = NewDefaultsResolver(DefaultRegistry(), logger)
	}
	if s.library == nil {
		s.library = DefaultLibrary()
	}
	if s.interval <= 0 {
		s.interval = DefaultAutosaveInterval
	}
	metrics.SessionOpened()
	return s
}

// Open loads the page from store and starts a session over its content.
func Open(ctx context.Context, store page.Store, pageID string, opts Options) (*Session, error) {
	p, err := store.GetPageByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return NewSession(p.ID, p.Content, store, opts), nil
}

func (s *Session) PageID() string { return s.pageID }

// Items returns a deep copy of the current list sorted by order.
func (s *Session) Items() []ComponentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SortByOrder(s.items)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if ItemsEqual(s.items, s.snapshot) {
		return StateClean
	}
	return StateDirty
}

func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Session) AutosaveEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelAutosave != nil
}

// Encode serializes the current list in the persisted page format.
func (s *Session) Encode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Encode(s.items)
}

func (s *Session) mutate(fn func(items []ComponentItem) ([]ComponentItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionClosed
	}
	next, err := fn(s.items)
	if err != nil {
		return err
	}
	s.items = next
	s.revision++
	return nil
}

// InsertFromPalette places a new component of kind at index, seeded from the
// defaults registry.
func (s *Session) InsertFromPalette(kind string, index int) (ComponentItem, error) {
	if !ValidKind(kind) {
		return ComponentItem{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	d := s.defaults.Lookup(kind)

	var inserted ComponentItem
	err := s.mutate(func(items []ComponentItem) ([]ComponentItem, error) {
		item := ComponentItem{
			ID:       s.ids.GenerateComponentID(kind),
			Type:     kind,
			Content:  d.Content,
			Settings: d.Settings,
		}
		next, err := InsertAt(items, index, item)
		if err != nil {
			return nil, err
		}
		inserted = next[index].Clone()
		return next, nil
	})
	return inserted, err
}

// AddComponent appends bp after the last component. A blueprint with neither
// content nor settings is seeded from the defaults registry.
func (s *Session) AddComponent(bp Blueprint) (ComponentItem, error) {
	if !ValidKind(bp.Type) {
		return ComponentItem{}, fmt.Errorf("%w: %q", ErrInvalidKind, bp.Type)
	}
	content, settings := bp.Content, bp.Settings
	if content == nil && settings == nil {
		d := s.defaults.Lookup(bp.Type)
		content, settings = d.Content, d.Settings
	}

	var added ComponentItem
	err := s.mutate(func(items []ComponentItem) ([]ComponentItem, error) {
		next := Append(items, ComponentItem{
			ID:       s.ids.GenerateComponentID(bp.Type),
			Type:     bp.Type,
			Content:  content,
			Settings: settings,
		})
		added = next[len(next)-1].Clone()
		return next, nil
	})
	return added, err
}

func (s *Session) AddSnippet(id string) (ComponentItem, error) {
	sn, ok := s.library.Snippet(id)
	if !ok {
		return ComponentItem{}, NotFoundError{Kind: "snippet", ID: id}
	}
	return s.AddComponent(sn.Blueprint)
}

func (s *Session) Reorder(from, to int) error {
	return s.mutate(func(items []ComponentItem) ([]ComponentItem, error) {
		return Move(items, from, to)
	})
}

// Delete removes the component with id once c approves.
func (s *Session) Delete(ctx context.Context, id string, c Confirmer) error {
	if !s.has(id) {
		return NotFoundError{Kind: "component", ID: id}
	}
	if !confirmed(ctx, c, Prompt{Action: ActionDeleteComponent, Target: id, Count: 1}) {
		return ErrNotConfirmed
	}
	return s.mutate(func(items []ComponentItem) ([]ComponentItem, error) {
		next, ok := Remove(items, id)
		if !ok {
			return nil, NotFoundError{Kind: "component", ID: id}
		}
		return next, nil
	})
}

func (s *Session) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.items, id) >= 0
}

// UpdateContent merges fields into the component's content. A nil value
// removes the field.
func (s *Session) UpdateContent(id string, fields map[string]any) error {
	return s.update(id, func(it *ComponentItem) { it.Content = mergeFields(it.Content, fields) })
}

// UpdateSettings merges fields into the component's settings. A nil value
// removes the field.
func (s *Session) UpdateSettings(id string, fields map[string]any) error {
	return s.update(id, func(it *ComponentItem) { it.Settings = mergeFields(it.Settings, fields) })
}

// Update merges content and settings fields in a single edit. Either map may
// be nil to leave that side alone.
func (s *Session) Update(id string, content, settings map[string]any) error {
	return s.update(id, func(it *ComponentItem) {
		if content != nil {
			it.Content = mergeFields(it.Content, content)
		}
		if settings != nil {
			it.Settings = mergeFields(it.Settings, settings)
		}
	})
}

func (s *Session) update(id string, fn func(it *ComponentItem)) error {
	return s.mutate(func(items []ComponentItem) ([]ComponentItem, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, NotFoundError{Kind: "component", ID: id}
		}
		next := make([]ComponentItem, len(items))
		copy(next, items)
		edited := items[i].Clone()
		fn(&edited)
		next[i] = edited
		return next, nil
	})
}

func mergeFields(dst, fields map[string]any) map[string]any {
	out := cloneMap(dst)
	for k, v := range fields {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// ApplyTemplate replaces the whole list with a fresh instance of template
// tid. Replacing a non-empty list needs c's approval. An unknown template is
// a no-op and reports false.
func (s *Session) ApplyTemplate(ctx context.Context, tid string, c Confirmer) (bool, error) {
	t, ok := s.library.Template(tid)
	if !ok {
		s.logger.WithField("template_id", tid).Warn("template not found, nothing applied")
		return false, nil
	}

	s.mu.Lock()
	n := len(s.items)
	s.mu.Unlock()
	if n > 0 && !confirmed(ctx, c, Prompt{Action: ActionReplaceWithTemplate, Target: tid, Count: n}) {
		return false, ErrNotConfirmed
	}

	err := s.mutate(func([]ComponentItem) ([]ComponentItem, error) {
		return Instantiate(t, s.ids), nil
	})
	return err == nil, err
}

// Save persists the current list. A clean session issues no store call.
// When another save is running, Save waits for it and then persists
// whatever that save left unsaved, so a failure of the running save is
// retried here and reported to the caller.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	return s.persist(ctx, saveModeManual)
}

func (s *Session) persist(ctx context.Context, mode string) (SaveResult, error) {
	s.mu.Lock()
	for s.inflight != nil && !s.disposed {
		if mode != saveModeManual {
			rev := s.revision
			s.mu.Unlock()
			metrics.RecordSave(mode, string(SaveInProgress))
			return SaveResult{Status: SaveInProgress, Revision: rev}, nil
		}
		wait := s.inflight
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			metrics.RecordSave(mode, "error")
			return SaveResult{Revision: s.Revision()}, ctx.Err()
		}
		s.mu.Lock()
	}
	if s.disposed {
		s.mu.Unlock()
		return SaveResult{}, ErrSessionClosed
	}
	rev := s.revision
	if s.stateLocked() == StateClean {
		s.mu.Unlock()
		metrics.RecordSave(mode, string(SaveNoChanges))
		return SaveResult{Status: SaveNoChanges, Revision: rev}, nil
	}
	items := SortByOrder(s.items)
	content, err := Encode(items)
	if err != nil {
		s.mu.Unlock()
		metrics.RecordSave(mode, "error")
		return SaveResult{Revision: rev}, err
	}
	done := make(chan struct{})
	s.inflight = done
	s.mu.Unlock()

	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}
	p, err := s.store.UpdatePage(ctx, s.pageID, page.Update{Content: content})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = nil
	close(done)
	if err != nil {
		metrics.RecordSave(mode, "error")
		return SaveResult{Revision: rev}, fmt.Errorf("save page %s: %w", s.pageID, err)
	}
	s.snapshot = items
	if s.revision != rev {
		metrics.RecordSave(mode, string(SaveSuperseded))
		if !s.disposed {
			go s.followUp()
		}
		return SaveResult{Status: SaveSuperseded, Revision: rev, Page: p}, nil
	}
	metrics.RecordSave(mode, string(SaveSaved))
	return SaveResult{Status: SaveSaved, Revision: rev, Page: p}, nil
}

func (s *Session) followUp() {
	if _, err := s.persist(context.Background(), saveModeFollowUp); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.WithError(err).Error("follow-up save failed")
	}
}

func (s *Session) autosaveTick() {
	res, err := s.persist(context.Background(), saveModeAutosave)
	switch {
	case errors.Is(err, ErrSessionClosed):
	case err != nil:
		s.logger.WithError(err).Error("autosave failed")
	case res.Status == SaveSaved || res.Status == SaveSuperseded:
		s.logger.WithField("revision", res.Revision).Debug("autosaved")
	}
}

// SetAutosave starts or stops the repeating silent save.
func (s *Session) SetAutosave(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionClosed
	}
	if !enabled {
		s.stopAutosaveLocked()
		return nil
	}
	if s.cancelAutosave != nil {
		return nil
	}
	if s.scheduler == nil {
		return errors.New("autosave requires a scheduler")
	}
	cancel, err := s.scheduler.Every(s.interval, s.autosaveTick)
	if err != nil {
		return err
	}
	s.cancelAutosave = cancel
	return nil
}

func (s *Session) stopAutosaveLocked() {
	if s.cancelAutosave != nil {
		s.cancelAutosave()
		s.cancelAutosave = nil
	}
}

// Dispose cancels autosave and rejects further edits and saves. A save
// already in flight still completes. Safe to call more than once.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	s.stopAutosaveLocked()
	metrics.SessionClosed()
}
