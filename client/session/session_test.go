package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pebblevault/client/store"
	"pebblevault/client/tree"
)

type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	archivePebbles []store.Pebble
	archiveFolders []store.Folder

	serverFolderID string
	serverPebbleID string

	createFolderGate chan struct{}
	ungroupErr       error
	renameErr        error
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRemote) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeRemote) Archive(ctx context.Context) ([]store.Pebble, []store.Folder, error) {
	f.record("archive")
	return f.archivePebbles, f.archiveFolders, nil
}

func (f *fakeRemote) CreatePebble(ctx context.Context, topic, folderID string, generate bool) (store.Pebble, error) {
	f.record("createPebble")
	id := f.serverPebbleID
	if id == "" {
		id = "srv-pebble"
	}
	return store.Pebble{ID: id, Topic: topic, FolderID: folderID, Timestamp: 1700000000000}, nil
}

func (f *fakeRemote) RenamePebble(ctx context.Context, id, topic string) error {
	f.record("renamePebble")
	return f.renameErr
}

func (f *fakeRemote) VerifyPebble(ctx context.Context, id string, verified bool) error {
	f.record("verifyPebble")
	return nil
}

func (f *fakeRemote) MovePebbles(ctx context.Context, ids []string, folderID string) error {
	f.record("movePebbles")
	return nil
}

func (f *fakeRemote) DeletePebbles(ctx context.Context, ids []string) error {
	f.record("deletePebbles")
	return nil
}

func (f *fakeRemote) RestorePebbles(ctx context.Context, ids []string) error {
	f.record("restorePebbles")
	return nil
}

func (f *fakeRemote) CreateFolder(ctx context.Context, name, parentID string, pebbleIDs []string, clientID string) (store.Folder, string, error) {
	if f.createFolderGate != nil {
		<-f.createFolderGate
	}
	f.record("createFolder")
	id := f.serverFolderID
	if id == "" {
		id = "srv-folder"
	}
	return store.Folder{ID: id, Name: name, ParentID: parentID, CreatedAt: 1700000000000}, clientID, nil
}

func (f *fakeRemote) RenameFolder(ctx context.Context, id, name string) error {
	f.record("renameFolder")
	return f.renameErr
}

func (f *fakeRemote) MoveFolder(ctx context.Context, id, parentID string) error {
	f.record("moveFolder")
	return nil
}

func (f *fakeRemote) UngroupFolder(ctx context.Context, id string) error {
	f.record("ungroupFolder")
	return f.ungroupErr
}

func newTestSession(remote Remote) (*Session, *store.Store, *tree.Index) {
	st := store.New()
	idx := tree.NewIndex(st)
	return New(st, idx, remote, zap.NewNop()), st, idx
}

func TestCreateFolderReconcilesServerID(t *testing.T) {
	remote := &fakeRemote{serverFolderID: "f-real"}
	sess, st, _ := newTestSession(remote)

	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})
	st.AppendPebble(store.Pebble{ID: "p2", Topic: "Relativity"})

	tempID := sess.CreateFolder("  ", "", []string{"p1", "p2"})
	require.NotEmpty(t, tempID)

	// Optimistic state points at the provisional id
	p1, ok := st.PebbleByID("p1")
	require.True(t, ok)
	assert.Equal(t, tempID, p1.FolderID)

	folder, ok := st.FolderByID(tempID)
	require.True(t, ok)
	assert.Equal(t, "New Collection", folder.Name)

	sess.Wait()

	// Confirmation rewrote the folder and every member
	_, ok = st.FolderByID(tempID)
	assert.False(t, ok)
	folder, ok = st.FolderByID("f-real")
	require.True(t, ok)
	assert.Equal(t, "New Collection", folder.Name)

	for _, id := range []string{"p1", "p2"} {
		p, ok := st.PebbleByID(id)
		require.True(t, ok)
		assert.Equal(t, "f-real", p.FolderID)
	}
}

func TestReconciliationDroppedAfterReload(t *testing.T) {
	gate := make(chan struct{})
	remote := &fakeRemote{
		serverFolderID:   "f-real",
		createFolderGate: gate,
		archivePebbles:   []store.Pebble{{ID: "p1", Topic: "Gravity"}},
		archiveFolders:   nil,
	}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})

	sess.CreateFolder("Physics", "", []string{"p1"})

	// A reload lands while the create is still in flight
	require.NoError(t, sess.Load(context.Background()))
	close(gate)
	sess.Wait()

	// The stale confirmation must not resurrect the folder
	assert.Empty(t, st.Folders())
	p1, ok := st.PebbleByID("p1")
	require.True(t, ok)
	assert.Empty(t, p1.FolderID)
}

func TestDeleteRestorePreservesFolder(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, idx := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "f1", Name: "Physics"})
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity", FolderID: "f1"})

	sess.DeletePebbles([]string{"p1"})
	assert.Empty(t, idx.ChildrenOf("f1").Pebbles)

	sess.RestorePebbles([]string{"p1"})
	p1, ok := st.PebbleByID("p1")
	require.True(t, ok)
	assert.False(t, p1.IsDeleted)
	assert.Equal(t, "f1", p1.FolderID)

	sess.Wait()
	assert.Equal(t, 1, remote.callCount("deletePebbles"))
	assert.Equal(t, 1, remote.callCount("restorePebbles"))
}

func TestUndoDeleteWithinWindow(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity", FolderID: "f1"})

	now := time.Unix(1700000000, 0)
	sess.now = func() time.Time { return now }

	sess.DeletePebbles([]string{"p1"})
	now = now.Add(3 * time.Second)

	assert.True(t, sess.UndoDelete())
	p1, _ := st.PebbleByID("p1")
	assert.False(t, p1.IsDeleted)
	assert.Equal(t, "f1", p1.FolderID)

	// The batch is consumed, a second undo does nothing
	assert.False(t, sess.UndoDelete())
	sess.Wait()
}

func TestUndoDeleteAfterWindowExpires(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})

	now := time.Unix(1700000000, 0)
	sess.now = func() time.Time { return now }

	sess.DeletePebbles([]string{"p1"})
	now = now.Add(6 * time.Second)

	assert.False(t, sess.UndoDelete())
	p1, _ := st.PebbleByID("p1")
	assert.True(t, p1.IsDeleted)
	sess.Wait()
}

func TestRenameBlankIsSilentNoOp(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})
	st.AppendFolder(store.Folder{ID: "f1", Name: "Physics"})

	sess.RenamePebble("p1", "   ")
	sess.RenameFolder("f1", "")
	sess.Wait()

	p1, _ := st.PebbleByID("p1")
	assert.Equal(t, "Gravity", p1.Topic)
	f1, _ := st.FolderByID("f1")
	assert.Equal(t, "Physics", f1.Name)
	assert.Equal(t, 0, remote.callCount("renamePebble"))
	assert.Equal(t, 0, remote.callCount("renameFolder"))
}

func TestRenameTrimsWhitespace(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})

	sess.RenamePebble("p1", "  Quantum Gravity  ")
	sess.Wait()

	p1, _ := st.PebbleByID("p1")
	assert.Equal(t, "Quantum Gravity", p1.Topic)
	assert.Equal(t, 1, remote.callCount("renamePebble"))
}

func TestUngroupFolderLiftsChildren(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, idx := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "root-f", Name: "Science"})
	st.AppendFolder(store.Folder{ID: "physics", Name: "Physics", ParentID: "root-f"})
	st.AppendFolder(store.Folder{ID: "quantum", Name: "Quantum", ParentID: "physics"})
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity", FolderID: "physics"})
	st.AppendPebble(store.Pebble{ID: "p2", Topic: "Relativity", FolderID: "physics"})
	st.AppendPebble(store.Pebble{ID: "p3", Topic: "Rome"})

	require.NoError(t, sess.UngroupFolder("physics"))
	sess.Wait()

	_, ok := st.FolderByID("physics")
	assert.False(t, ok)
	assert.Len(t, st.Folders(), 2)
	assert.Len(t, st.Pebbles(), 3)

	children := idx.ChildrenOf("root-f")
	ids := make([]string, 0, len(children.Pebbles))
	for _, p := range children.Pebbles {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
	require.Len(t, children.Folders, 1)
	assert.Equal(t, "quantum", children.Folders[0].ID)
}

func TestUngroupRemoteFailureReloads(t *testing.T) {
	remote := &fakeRemote{
		ungroupErr: errors.New("server exploded"),
		archivePebbles: []store.Pebble{
			{ID: "p1", Topic: "Gravity", FolderID: "physics"},
		},
		archiveFolders: []store.Folder{
			{ID: "physics", Name: "Physics"},
		},
	}
	sess, st, _ := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "physics", Name: "Physics"})
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity", FolderID: "physics"})

	require.NoError(t, sess.UngroupFolder("physics"))
	sess.Wait()

	// Server state won, the optimistic ungroup was rolled back
	folder, ok := st.FolderByID("physics")
	require.True(t, ok)
	assert.Equal(t, "Physics", folder.Name)
	p1, _ := st.PebbleByID("p1")
	assert.Equal(t, "physics", p1.FolderID)
	assert.Equal(t, 1, remote.callCount("archive"))
}

func TestMoveFolderRefusesCycle(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "f1", Name: "Science"})
	st.AppendFolder(store.Folder{ID: "f2", Name: "Physics", ParentID: "f1"})

	assert.ErrorIs(t, sess.MoveFolder("f1", "f2"), ErrFolderCycle)
	assert.ErrorIs(t, sess.MoveFolder("f1", "f1"), ErrFolderCycle)

	f1, _ := st.FolderByID("f1")
	assert.Empty(t, f1.ParentID)
	sess.Wait()
	assert.Equal(t, 0, remote.callCount("moveFolder"))
}

func TestMoveFolderToRoot(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "f1", Name: "Science"})
	st.AppendFolder(store.Folder{ID: "f2", Name: "Physics", ParentID: "f1"})

	require.NoError(t, sess.MoveFolder("f2", ""))
	f2, _ := st.FolderByID("f2")
	assert.Empty(t, f2.ParentID)
	sess.Wait()
	assert.Equal(t, 1, remote.callCount("moveFolder"))
}

func TestSolidifyGeneratedDuplicateTopic(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Black Holes"})

	_, err := sess.SolidifyGenerated(context.Background(), "black holes", "")
	assert.ErrorIs(t, err, ErrDuplicateTopic)
	assert.Equal(t, 0, remote.callCount("createPebble"))
}

func TestSolidifyGeneratedIgnoresDeletedDuplicate(t *testing.T) {
	remote := &fakeRemote{serverPebbleID: "p-new"}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Black Holes", IsDeleted: true})

	created, err := sess.SolidifyGenerated(context.Background(), "Black Holes", "")
	require.NoError(t, err)
	assert.Equal(t, "p-new", created.ID)

	_, ok := st.PebbleByID("p-new")
	assert.True(t, ok)
}

func TestCreateDraftAdoptsServerID(t *testing.T) {
	remote := &fakeRemote{serverPebbleID: "p-real"}
	sess, st, _ := newTestSession(remote)

	draft, err := sess.CreateDraft("  Gravity  ", "f1")
	require.NoError(t, err)
	assert.Equal(t, "Gravity", draft.Topic)
	assert.Equal(t, "f1", draft.FolderID)

	sess.Wait()
	_, ok := st.PebbleByID(draft.ID)
	assert.False(t, ok)
	p, ok := st.PebbleByID("p-real")
	require.True(t, ok)
	assert.Equal(t, "Gravity", p.Topic)
	assert.Equal(t, "f1", p.FolderID)
}

func TestCreateDraftEmptyTopic(t *testing.T) {
	remote := &fakeRemote{}
	sess, _, _ := newTestSession(remote)

	_, err := sess.CreateDraft("   ", "")
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

func TestVerifyPebble(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})

	sess.VerifyPebble("p1", true)
	sess.Wait()

	p1, _ := st.PebbleByID("p1")
	assert.True(t, p1.IsVerified)
	assert.Equal(t, 1, remote.callCount("verifyPebble"))
}

func TestMovePebblesBatch(t *testing.T) {
	remote := &fakeRemote{}
	sess, st, _ := newTestSession(remote)

	st.AppendFolder(store.Folder{ID: "f1", Name: "Physics"})
	st.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity"})
	st.AppendPebble(store.Pebble{ID: "p2", Topic: "Relativity"})

	sess.MovePebbles([]string{"p1", "p2", "missing"}, "f1")
	sess.Wait()

	for _, id := range []string{"p1", "p2"} {
		p, _ := st.PebbleByID(id)
		assert.Equal(t, "f1", p.FolderID)
	}
	assert.Equal(t, 1, remote.callCount("movePebbles"))
}
