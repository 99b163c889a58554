// Package session is the mutation engine of the archive client. Every
// structural change goes through it: the change lands on the local store
// first, then a background call persists it remotely. Remote failures
// are logged and the optimistic state kept, except for ungroup, whose
// failure reloads everything from the server.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pebblevault/client/store"
	"pebblevault/client/tree"
)

var (
	ErrDuplicateTopic = errors.New("a pebble with this topic already exists")
	ErrFolderCycle    = errors.New("cannot move a folder into its own subtree")
	ErrFolderNotFound = errors.New("folder not found")
	ErrEmptyTopic     = errors.New("topic must not be empty")
)

const (
	defaultUndoWindow  = 5 * time.Second
	defaultSyncTimeout = 30 * time.Second
	defaultFolderName  = "New Collection"
	provisionalPrefix  = "temp-"
)

// Remote is the persistence collaborator the session syncs against
type Remote interface {
	Archive(ctx context.Context) ([]store.Pebble, []store.Folder, error)
	CreatePebble(ctx context.Context, topic, folderID string, generate bool) (store.Pebble, error)
	RenamePebble(ctx context.Context, id, topic string) error
	VerifyPebble(ctx context.Context, id string, verified bool) error
	MovePebbles(ctx context.Context, ids []string, folderID string) error
	DeletePebbles(ctx context.Context, ids []string) error
	RestorePebbles(ctx context.Context, ids []string) error
	CreateFolder(ctx context.Context, name, parentID string, pebbleIDs []string, clientID string) (store.Folder, string, error)
	RenameFolder(ctx context.Context, id, name string) error
	MoveFolder(ctx context.Context, id, parentID string) error
	UngroupFolder(ctx context.Context, id string) error
}

// Session owns all writes to the store. Reads go through the store and
// tree index directly.
type Session struct {
	store  *store.Store
	tree   *tree.Index
	remote Remote
	logger *zap.Logger

	// mu serializes read-modify-replace transitions so background
	// confirmations cannot interleave with user mutations
	mu sync.Mutex

	wg          sync.WaitGroup
	epoch       atomic.Uint64
	syncTimeout time.Duration

	undoMu       sync.Mutex
	undoIDs      []string
	undoDeadline time.Time
	undoWindow   time.Duration

	now func() time.Time
}

// New creates a session over the given store
func New(st *store.Store, idx *tree.Index, remote Remote, logger *zap.Logger) *Session {
	return &Session{
		store:       st,
		tree:        idx,
		remote:      remote,
		logger:      logger,
		syncTimeout: defaultSyncTimeout,
		undoWindow:  defaultUndoWindow,
		now:         time.Now,
	}
}

// Load fetches the full archive and replaces local state with it
func (s *Session) Load(ctx context.Context) error {
	pebbles, folders, err := s.remote.Archive(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.store.ReplaceAll(pebbles, folders)
	s.epoch.Add(1)
	s.mu.Unlock()
	return nil
}

// Wait blocks until every in-flight remote sync has finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// CreateDraft adds a blank pebble under a provisional id and persists
// it in the background; the server-assigned id replaces the provisional
// one once the confirmation arrives.
func (s *Session) CreateDraft(topic, folderID string) (store.Pebble, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return store.Pebble{}, ErrEmptyTopic
	}

	draft := store.Pebble{
		ID:        provisionalPrefix + uuid.New().String(),
		Topic:     topic,
		FolderID:  folderID,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.store.AppendPebble(draft)
	epoch := s.epoch.Load()
	s.mu.Unlock()

	s.sync("create pebble", func(ctx context.Context) error {
		created, err := s.remote.CreatePebble(ctx, draft.Topic, draft.FolderID, false)
		if err != nil {
			return err
		}
		s.adoptPebbleID(epoch, draft.ID, created)
		return nil
	})
	return draft, nil
}

// SolidifyGenerated persists a generated pebble. It blocks until the
// server confirms, since the content only exists server-side, and
// refuses topics that already have a live pebble.
func (s *Session) SolidifyGenerated(ctx context.Context, topic, folderID string) (store.Pebble, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return store.Pebble{}, ErrEmptyTopic
	}
	if s.topicExists(topic) {
		return store.Pebble{}, ErrDuplicateTopic
	}

	created, err := s.remote.CreatePebble(ctx, topic, folderID, true)
	if err != nil {
		return store.Pebble{}, err
	}

	s.mu.Lock()
	s.store.AppendPebble(created)
	s.mu.Unlock()
	return created, nil
}

// RenamePebble trims the new topic; a blank result is a silent no-op
func (s *Session) RenamePebble(id, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}

	s.mu.Lock()
	ok := s.store.ReplacePebble(id, func(p *store.Pebble) {
		p.Topic = topic
	})
	s.mu.Unlock()
	if !ok {
		return
	}

	s.sync("rename pebble", func(ctx context.Context) error {
		return s.remote.RenamePebble(ctx, id, topic)
	})
}

// RenameFolder trims the new name; a blank result is a silent no-op
func (s *Session) RenameFolder(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	ok := s.store.ReplaceFolder(id, func(f *store.Folder) {
		f.Name = name
	})
	s.mu.Unlock()
	if !ok {
		return
	}

	s.sync("rename folder", func(ctx context.Context) error {
		return s.remote.RenameFolder(ctx, id, name)
	})
}

// VerifyPebble toggles the reviewed mark on a pebble's content
func (s *Session) VerifyPebble(id string, verified bool) {
	s.mu.Lock()
	ok := s.store.ReplacePebble(id, func(p *store.Pebble) {
		p.IsVerified = verified
	})
	s.mu.Unlock()
	if !ok {
		return
	}

	s.sync("verify pebble", func(ctx context.Context) error {
		return s.remote.VerifyPebble(ctx, id, verified)
	})
}

// MovePebbles assigns every listed pebble to the target folder; an
// empty target means the root
func (s *Session) MovePebbles(ids []string, folderID string) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	moved := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.store.ReplacePebble(id, func(p *store.Pebble) {
			p.FolderID = folderID
		}) {
			moved = append(moved, id)
		}
	}
	s.mu.Unlock()
	if len(moved) == 0 {
		return
	}

	s.sync("move pebbles", func(ctx context.Context) error {
		return s.remote.MovePebbles(ctx, moved, folderID)
	})
}

// MoveFolder re-parents a folder, refusing moves that would create a
// cycle
func (s *Session) MoveFolder(id, parentID string) error {
	if parentID == id || s.tree.IsDescendant(parentID, id) {
		return ErrFolderCycle
	}

	s.mu.Lock()
	ok := s.store.ReplaceFolder(id, func(f *store.Folder) {
		f.ParentID = parentID
	})
	s.mu.Unlock()
	if !ok {
		return ErrFolderNotFound
	}

	s.sync("move folder", func(ctx context.Context) error {
		return s.remote.MoveFolder(ctx, id, parentID)
	})
	return nil
}

// DeletePebbles soft-deletes the listed pebbles and arms the undo
// window. Folder assignment is untouched so a restore puts everything
// back where it was.
func (s *Session) DeletePebbles(ids []string) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.store.ReplacePebble(id, func(p *store.Pebble) {
			p.IsDeleted = true
		}) {
			deleted = append(deleted, id)
		}
	}
	s.mu.Unlock()
	if len(deleted) == 0 {
		return
	}

	s.undoMu.Lock()
	s.undoIDs = deleted
	s.undoDeadline = s.now().Add(s.undoWindow)
	s.undoMu.Unlock()

	s.sync("delete pebbles", func(ctx context.Context) error {
		return s.remote.DeletePebbles(ctx, deleted)
	})
}

// UndoDelete restores the most recently deleted batch. Outside the
// undo window it does nothing and reports false.
func (s *Session) UndoDelete() bool {
	s.undoMu.Lock()
	ids := s.undoIDs
	expired := s.undoIDs == nil || s.now().After(s.undoDeadline)
	s.undoIDs = nil
	s.undoMu.Unlock()

	if expired || len(ids) == 0 {
		return false
	}
	s.RestorePebbles(ids)
	return true
}

// RestorePebbles clears the deleted flag on the listed pebbles
func (s *Session) RestorePebbles(ids []string) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	restored := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.store.ReplacePebble(id, func(p *store.Pebble) {
			p.IsDeleted = false
		}) {
			restored = append(restored, id)
		}
	}
	s.mu.Unlock()
	if len(restored) == 0 {
		return
	}

	s.sync("restore pebbles", func(ctx context.Context) error {
		return s.remote.RestorePebbles(ctx, restored)
	})
}

// CreateFolder allocates a folder under a provisional id, moves the
// listed pebbles into it, and returns the provisional id. The server's
// id replaces it, rewriting children references in one transition,
// unless a reload happened in between.
func (s *Session) CreateFolder(name, parentID string, pebbleIDs []string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFolderName
	}

	folder := store.Folder{
		ID:        provisionalPrefix + uuid.New().String(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.store.AppendFolder(folder)
	for _, id := range pebbleIDs {
		s.store.ReplacePebble(id, func(p *store.Pebble) {
			p.FolderID = folder.ID
		})
	}
	epoch := s.epoch.Load()
	s.mu.Unlock()

	members := append([]string(nil), pebbleIDs...)
	s.sync("create folder", func(ctx context.Context) error {
		created, clientID, err := s.remote.CreateFolder(ctx, folder.Name, folder.ParentID, members, folder.ID)
		if err != nil {
			return err
		}
		if clientID == "" {
			clientID = folder.ID
		}
		s.adoptFolderID(epoch, clientID, created)
		return nil
	})
	return folder.ID
}

// UngroupFolder lifts every direct child of the folder to the folder's
// own parent and removes the folder, in a single store transition. A
// remote failure here can leave the server half re-parented, so that
// path reloads everything instead of keeping the optimistic state.
func (s *Session) UngroupFolder(id string) error {
	s.mu.Lock()
	folder, ok := s.store.FolderByID(id)
	if !ok {
		s.mu.Unlock()
		return ErrFolderNotFound
	}
	parentID := folder.ParentID

	pebbles := s.store.Pebbles()
	for i := range pebbles {
		if pebbles[i].FolderID == id {
			pebbles[i].FolderID = parentID
		}
	}
	folders := s.store.Folders()
	kept := folders[:0]
	for _, f := range folders {
		if f.ID == id {
			continue
		}
		if f.ParentID == id {
			f.ParentID = parentID
		}
		kept = append(kept, f)
	}
	s.store.ReplaceAll(pebbles, kept)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()
		if err := s.remote.UngroupFolder(ctx, id); err != nil {
			s.logger.Error("ungroup failed remotely, reloading",
				zap.String("folderId", id), zap.Error(err))
			s.reload(ctx)
		}
	}()
	return nil
}

// topicExists reports whether a live pebble already uses the topic
func (s *Session) topicExists(topic string) bool {
	for _, p := range s.store.Pebbles() {
		if !p.IsDeleted && strings.EqualFold(p.Topic, topic) {
			return true
		}
	}
	return false
}

// adoptPebbleID swaps a provisional pebble id for the server's,
// keeping local edits made since the create was issued
func (s *Session) adoptPebbleID(epoch uint64, provisionalID string, created store.Pebble) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch.Load() != epoch {
		return
	}
	s.store.ReplacePebble(provisionalID, func(p *store.Pebble) {
		p.ID = created.ID
		p.Timestamp = created.Timestamp
	})
}

// adoptFolderID swaps a provisional folder id for the server's and
// rewrites every child reference in the same transition
func (s *Session) adoptFolderID(epoch uint64, provisionalID string, created store.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch.Load() != epoch {
		return
	}

	pebbles := s.store.Pebbles()
	for i := range pebbles {
		if pebbles[i].FolderID == provisionalID {
			pebbles[i].FolderID = created.ID
		}
	}
	folders := s.store.Folders()
	for i := range folders {
		if folders[i].ID == provisionalID {
			folders[i].ID = created.ID
			folders[i].CreatedAt = created.CreatedAt
		}
		if folders[i].ParentID == provisionalID {
			folders[i].ParentID = created.ID
		}
	}
	s.store.ReplaceAll(pebbles, folders)
}

// reload replaces local state with the server's and bumps the epoch so
// stale confirmations are dropped
func (s *Session) reload(ctx context.Context) {
	pebbles, folders, err := s.remote.Archive(ctx)
	if err != nil {
		s.logger.Error("reload after ungroup failure also failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.store.ReplaceAll(pebbles, folders)
	s.epoch.Add(1)
	s.mu.Unlock()
}

// sync runs one remote call in the background, logging failures and
// keeping the optimistic local state
func (s *Session) sync(op string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("remote sync failed, keeping local state",
				zap.String("operation", op), zap.Error(err))
		}
	}()
}
