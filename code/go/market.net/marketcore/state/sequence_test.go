package state_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
)

func setupStateStore(t *testing.T) {
	t.Helper()
	gdb, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&state.MarketState{}, &state.Sequence{}))
}

func TestBootstrap_SeedsSequences(t *testing.T) {
	setupStateStore(t)

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return state.Bootstrap(ctx, "the_owner")
	})
	require.NoError(t, err)

	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		st, err := state.GetState(ctx)
		require.NoError(t, err)
		require.True(t, st.Initialized)
		require.Equal(t, "the_owner", st.Owner)

		next, err := state.PeekNext(ctx, state.SequenceMachineID)
		require.NoError(t, err)
		require.Equal(t, int64(state.FirstMachineID), next)

		next, err = state.PeekNext(ctx, state.SequenceOrderID)
		require.NoError(t, err)
		require.Equal(t, int64(state.FirstOrderID), next)
		return nil
	})
	require.NoError(t, err)
}

func TestBootstrap_Twice(t *testing.T) {
	setupStateStore(t)

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return state.Bootstrap(ctx, "the_owner")
	})
	require.NoError(t, err)

	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return state.Bootstrap(ctx, "someone_else")
	})
	require.Equal(t, state.ErrAlreadyInitialized, err)
}

func TestAllocateNext_Advances(t *testing.T) {
	setupStateStore(t)

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return state.Bootstrap(ctx, "the_owner")
	})
	require.NoError(t, err)

	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		id, err := state.AllocateNext(ctx, state.SequenceMachineID)
		require.NoError(t, err)
		require.Equal(t, int64(10001), id)

		id, err = state.AllocateNext(ctx, state.SequenceMachineID)
		require.NoError(t, err)
		require.Equal(t, int64(10002), id)

		// the order sequence is independent
		id, err = state.AllocateNext(ctx, state.SequenceOrderID)
		require.NoError(t, err)
		require.Equal(t, int64(1), id)
		return nil
	})
	require.NoError(t, err)
}

func TestAllocateNext_RollbackKeepsHead(t *testing.T) {
	setupStateStore(t)

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return state.Bootstrap(ctx, "the_owner")
	})
	require.NoError(t, err)

	// a failed operation must not burn the id it allocated
	boom := context.DeadlineExceeded
	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		id, err := state.AllocateNext(ctx, state.SequenceOrderID)
		require.NoError(t, err)
		require.Equal(t, int64(1), id)
		return boom
	})
	require.Equal(t, boom, err)

	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		id, err := state.AllocateNext(ctx, state.SequenceOrderID)
		require.NoError(t, err)
		require.Equal(t, int64(1), id)
		return nil
	})
	require.NoError(t, err)
}

func TestAllocateNext_LocksRowOnPostgres(t *testing.T) {
	mock := datastore.UseSqlmock()

	mock.Sqlmock.ExpectBegin()
	mock.Sqlmock.ExpectQuery(`SELECT \* FROM "sequences" WHERE name = \$1.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "next_value"}).
			AddRow("machine_id", 10007))
	mock.Sqlmock.ExpectExec(`UPDATE "sequences" SET "next_value"=\$1 WHERE name = \$2`).
		WithArgs(int64(10008), "machine_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.Sqlmock.ExpectCommit()

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		id, err := state.AllocateNext(ctx, state.SequenceMachineID)
		require.NoError(t, err)
		require.Equal(t, int64(10007), id)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.Sqlmock.ExpectationsWereMet())
}
