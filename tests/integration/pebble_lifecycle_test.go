package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pebblevault/application/commands"
	commandhandlers "pebblevault/application/commands/handlers"
	"pebblevault/application/queries"
	queryhandlers "pebblevault/application/queries/handlers"
	domainconfig "pebblevault/domain/config"
	"pebblevault/infrastructure/persistence/memory"
)

const testUser = "user-integration"

type fixture struct {
	createPebble *commandhandlers.CreatePebbleHandler
	updatePebble *commandhandlers.UpdatePebbleHandler
	bulkPebbles  *commandhandlers.BulkDeletePebblesHandler
	createFolder *commandhandlers.CreateFolderHandler
	updateFolder *commandhandlers.UpdateFolderHandler
	ungroup      *commandhandlers.UngroupFolderHandler
	archive      *queryhandlers.ArchiveQueryHandler
}

func newFixture() *fixture {
	logger := zap.NewNop()
	pebbleRepo := memory.NewPebbleRepository()
	folderRepo := memory.NewFolderRepository()
	domainCfg := domainconfig.LoadDomainConfig("development")

	return &fixture{
		createPebble: commandhandlers.NewCreatePebbleHandler(pebbleRepo, folderRepo, nil, domainCfg, logger),
		updatePebble: commandhandlers.NewUpdatePebbleHandler(pebbleRepo, folderRepo, domainCfg, logger),
		bulkPebbles:  commandhandlers.NewBulkDeletePebblesHandler(pebbleRepo, logger),
		createFolder: commandhandlers.NewCreateFolderHandler(folderRepo, pebbleRepo, domainCfg, logger),
		updateFolder: commandhandlers.NewUpdateFolderHandler(folderRepo, domainCfg, logger),
		ungroup:      commandhandlers.NewUngroupFolderHandler(folderRepo, pebbleRepo, logger),
		archive:      queryhandlers.NewArchiveQueryHandler(pebbleRepo, folderRepo, logger),
	}
}

func TestPebbleLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	gravity, err := fx.createPebble.Handle(ctx, commands.CreatePebbleCommand{
		UserID: testUser,
		Topic:  "Gravity",
	})
	require.NoError(t, err)

	relativity, err := fx.createPebble.Handle(ctx, commands.CreatePebbleCommand{
		UserID: testUser,
		Topic:  "Relativity",
	})
	require.NoError(t, err)

	// Group both pebbles into a new folder in one operation
	physics, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID:    testUser,
		Name:      "Physics",
		PebbleIDs: []string{gravity.ID().String(), relativity.ID().String()},
	})
	require.NoError(t, err)

	archive, err := fx.archive.HandleGetArchive(ctx, queries.GetArchiveQuery{UserID: testUser})
	require.NoError(t, err)
	require.Len(t, archive.Pebbles, 2)
	require.Len(t, archive.Folders, 1)
	for _, p := range archive.Pebbles {
		assert.Equal(t, physics.ID().String(), p.FolderID().String())
	}

	// Rename, then soft-delete and restore; the folder assignment must
	// survive the round trip
	_, err = fx.updatePebble.HandleRename(ctx, commands.RenamePebbleCommand{
		UserID:   testUser,
		PebbleID: gravity.ID().String(),
		Topic:    "Quantum Gravity",
	})
	require.NoError(t, err)

	require.NoError(t, fx.bulkPebbles.HandleDelete(ctx, commands.DeletePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{gravity.ID().String()},
	}))

	page, err := fx.archive.HandleListPebbles(ctx, queries.ListPebblesQuery{UserID: testUser})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, fx.bulkPebbles.HandleRestore(ctx, commands.RestorePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{gravity.ID().String()},
	}))

	restored, err := fx.archive.HandleGetPebble(ctx, queries.GetPebbleQuery{
		UserID:   testUser,
		PebbleID: gravity.ID().String(),
	})
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
	assert.Equal(t, "Quantum Gravity", restored.Topic())
	assert.Equal(t, physics.ID().String(), restored.FolderID().String())

	// Dissolve the folder; both pebbles land back at the root
	require.NoError(t, fx.ungroup.Handle(ctx, commands.UngroupFolderCommand{
		UserID:   testUser,
		FolderID: physics.ID().String(),
	}))

	archive, err = fx.archive.HandleGetArchive(ctx, queries.GetArchiveQuery{UserID: testUser})
	require.NoError(t, err)
	assert.Empty(t, archive.Folders)
	require.Len(t, archive.Pebbles, 2)
	for _, p := range archive.Pebbles {
		assert.True(t, p.FolderID().IsZero())
	}
}

func TestFolderReparentRefusesCycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	science, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID: testUser,
		Name:   "Science",
	})
	require.NoError(t, err)

	physics, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID:   testUser,
		Name:     "Physics",
		ParentID: science.ID().String(),
	})
	require.NoError(t, err)

	err = fx.updateFolder.HandleMove(ctx, commands.MoveFolderCommand{
		UserID:   testUser,
		FolderID: science.ID().String(),
		ParentID: physics.ID().String(),
	})
	require.Error(t, err)

	// Moving to the root is always legal
	require.NoError(t, fx.updateFolder.HandleMove(ctx, commands.MoveFolderCommand{
		UserID:   testUser,
		FolderID: physics.ID().String(),
		ParentID: "",
	}))
}

func TestUngroupPreservesGrandchildren(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	science, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID: testUser,
		Name:   "Science",
	})
	require.NoError(t, err)

	physics, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID:   testUser,
		Name:     "Physics",
		ParentID: science.ID().String(),
	})
	require.NoError(t, err)

	quantum, err := fx.createFolder.Handle(ctx, commands.CreateFolderCommand{
		UserID:   testUser,
		Name:     "Quantum",
		ParentID: physics.ID().String(),
	})
	require.NoError(t, err)

	pebble, err := fx.createPebble.Handle(ctx, commands.CreatePebbleCommand{
		UserID:   testUser,
		Topic:    "Entanglement",
		FolderID: physics.ID().String(),
	})
	require.NoError(t, err)

	require.NoError(t, fx.ungroup.Handle(ctx, commands.UngroupFolderCommand{
		UserID:   testUser,
		FolderID: physics.ID().String(),
	}))

	archive, err := fx.archive.HandleGetArchive(ctx, queries.GetArchiveQuery{UserID: testUser})
	require.NoError(t, err)
	require.Len(t, archive.Folders, 2)

	for _, f := range archive.Folders {
		switch f.ID().String() {
		case science.ID().String():
			assert.True(t, f.ParentID().IsZero())
		case quantum.ID().String():
			assert.Equal(t, science.ID().String(), f.ParentID().String())
		default:
			t.Fatalf("unexpected folder %s", f.Name())
		}
	}

	lifted, err := fx.archive.HandleGetPebble(ctx, queries.GetPebbleQuery{
		UserID:   testUser,
		PebbleID: pebble.ID().String(),
	})
	require.NoError(t, err)
	assert.Equal(t, science.ID().String(), lifted.FolderID().String())
}

func TestBulkOperationsSkipSettledPebbles(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	gravity, err := fx.createPebble.Handle(ctx, commands.CreatePebbleCommand{
		UserID: testUser,
		Topic:  "Gravity",
	})
	require.NoError(t, err)

	inertia, err := fx.createPebble.Handle(ctx, commands.CreatePebbleCommand{
		UserID: testUser,
		Topic:  "Inertia",
	})
	require.NoError(t, err)

	require.NoError(t, fx.bulkPebbles.HandleDelete(ctx, commands.DeletePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{gravity.ID().String()},
	}))

	// A batch that includes an already-deleted pebble still deletes the rest
	require.NoError(t, fx.bulkPebbles.HandleDelete(ctx, commands.DeletePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{gravity.ID().String(), inertia.ID().String()},
	}))

	page, err := fx.archive.HandleListPebbles(ctx, queries.ListPebblesQuery{UserID: testUser})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	// Restoring a batch with an active pebble in it is not an error either
	require.NoError(t, fx.bulkPebbles.HandleRestore(ctx, commands.RestorePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{inertia.ID().String()},
	}))
	require.NoError(t, fx.bulkPebbles.HandleRestore(ctx, commands.RestorePebblesCommand{
		UserID:    testUser,
		PebbleIDs: []string{gravity.ID().String(), inertia.ID().String()},
	}))

	page, err = fx.archive.HandleListPebbles(ctx, queries.ListPebblesQuery{UserID: testUser})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
