package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMigrator_PostgresLifecycle(t *testing.T) {
	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// Сбрасываем схему, чтобы начать с пустой базы.
	require.NoError(t, store.MigrateDown(ctx, 100))
	t.Cleanup(func() {
		// Возвращаем схему для остальных интеграционных тестов пакета.
		_ = store.MigrateUp(context.Background(), 0)
	})

	state, err := store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, MigrationState{Version: 0, Applied: 0, Pending: 1}, state)

	require.NoError(t, store.MigrateUp(ctx, 0))
	state, err = store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.True(t, state.UpToDate())
	require.Equal(t, MigrationState{Version: 1, Applied: 1, Pending: 0}, state)

	// Повторный up ничего не меняет.
	require.NoError(t, store.MigrateUp(ctx, 0))
	again, err := store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, state, again)

	// Схема 0001 уже содержит колонку position.
	var hasPosition bool
	require.NoError(t, store.X().GetContext(ctx, &hasPosition, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'order_items' AND column_name = 'position'
		)`))
	require.True(t, hasPosition)

	require.NoError(t, store.MigrateDown(ctx, 0))
	state, err = store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, MigrationState{Version: 0, Applied: 0, Pending: 1}, state)

	// Откат на пустой схеме ничего не делает.
	require.NoError(t, store.MigrateDown(ctx, 1))
}

func TestMigrator_NilStoreGuards(t *testing.T) {
	var nilStore *Store
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.Error(t, nilStore.MigrateUp(ctx, 0))
	require.Error(t, nilStore.MigrateDown(ctx, 1))

	_, err := nilStore.MigrationStatus(ctx)
	require.Error(t, err)
}
