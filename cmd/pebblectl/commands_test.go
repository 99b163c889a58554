package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pebblevault/client/selection"
	"pebblevault/client/session"
	"pebblevault/client/store"
	"pebblevault/client/tree"
)

type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	archivePebbles []store.Pebble
	archiveFolders []store.Folder
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
	return f.archivePebbles, f.archiveFolders, nil
}

func (f *fakeRemote) CreatePebble(ctx context.Context, topic, folderID string, generate bool) (store.Pebble, error) {
	f.record("createPebble")
	return store.Pebble{ID: "srv-pebble", Topic: topic, FolderID: folderID, Timestamp: 1700000000000}, nil
}

func (f *fakeRemote) RenamePebble(ctx context.Context, id, topic string) error {
	f.record("renamePebble")
	return nil
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
	f.record("createFolder")
	return store.Folder{ID: "srv-folder", Name: name, ParentID: parentID}, clientID, nil
}

func (f *fakeRemote) RenameFolder(ctx context.Context, id, name string) error {
	f.record("renameFolder")
	return nil
}

func (f *fakeRemote) MoveFolder(ctx context.Context, id, parentID string) error {
	f.record("moveFolder")
	return nil
}

func (f *fakeRemote) UngroupFolder(ctx context.Context, id string) error {
	f.record("ungroupFolder")
	return nil
}

// newTestApp wires an App over a fake server, skipping connect
func newTestApp(t *testing.T, remote *fakeRemote) *App {
	t.Helper()
	app := &App{logger: zap.NewNop()}
	app.store = store.New()
	app.tree = tree.NewIndex(app.store)
	app.session = session.New(app.store, app.tree, remote, app.logger)
	app.selection = selection.NewController(app.session)
	require.NoError(t, app.session.Load(context.Background()))
	return app
}

func TestMoveCommandMovesSelection(t *testing.T) {
	remote := &fakeRemote{
		archivePebbles: []store.Pebble{
			{ID: "p1", Topic: "Gravity", Timestamp: 1},
			{ID: "p2", Topic: "Light", Timestamp: 2},
		},
		archiveFolders: []store.Folder{{ID: "f1", Name: "Physics"}},
	}
	app := newTestApp(t, remote)

	cmd := newMoveCmd(app)
	cmd.SetArgs([]string{"p1", "p2", "--to", "f1"})
	require.NoError(t, cmd.Execute())
	app.session.Wait()

	for _, id := range []string{"p1", "p2"} {
		p, ok := app.store.PebbleByID(id)
		require.True(t, ok)
		assert.Equal(t, "f1", p.FolderID)
	}
	assert.Equal(t, 1, remote.callCount("movePebbles"))
	assert.Equal(t, selection.Idle, app.selection.State())
}

func TestRemoveCommandDeletesSelection(t *testing.T) {
	remote := &fakeRemote{
		archivePebbles: []store.Pebble{
			{ID: "p1", Topic: "Gravity", Timestamp: 1},
			{ID: "p2", Topic: "Light", Timestamp: 2},
		},
	}
	app := newTestApp(t, remote)

	cmd := newRemoveCmd(app)
	cmd.SetArgs([]string{"p1", "p2"})
	require.NoError(t, cmd.Execute())
	app.session.Wait()

	for _, id := range []string{"p1", "p2"} {
		p, ok := app.store.PebbleByID(id)
		require.True(t, ok)
		assert.True(t, p.IsDeleted)
	}
	assert.Equal(t, 1, remote.callCount("deletePebbles"))
}

func TestGroupCommandCreatesFolderFromDrop(t *testing.T) {
	remote := &fakeRemote{
		archivePebbles: []store.Pebble{
			{ID: "p1", Topic: "Gravity", Timestamp: 1},
			{ID: "p2", Topic: "Light", Timestamp: 2},
		},
	}
	app := newTestApp(t, remote)

	cmd := newGroupCmd(app)
	cmd.SetArgs([]string{"p1", "p2", "--name", "Physics"})
	require.NoError(t, cmd.Execute())
	app.session.Wait()

	folder, ok := app.store.FolderByID("srv-folder")
	require.True(t, ok)
	assert.Equal(t, "Physics", folder.Name)
	for _, id := range []string{"p1", "p2"} {
		p, ok := app.store.PebbleByID(id)
		require.True(t, ok)
		assert.Equal(t, "srv-folder", p.FolderID)
	}
	assert.Equal(t, 1, remote.callCount("createFolder"))
}
