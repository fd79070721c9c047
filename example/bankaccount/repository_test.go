package bankaccount_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escore/escore"
	"github.com/escore/escore/example/bankaccount"
	"github.com/escore/escore/stores/mem"
)

func TestRepository_GetUnopenedAccountIsNotFound(t *testing.T) {
	store := mem.New(mem.WithTypeRegistry(bankaccount.Registry()))
	repo := bankaccount.NewRepository(store)

	_, err := repo.Get(context.Background(), "urn:bank-account:never-opened")

	var notFound *escore.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.ErrorIs(t, err, escore.ErrNotFound)
}

func TestRepository_GetAndLoadAgreeOnceOpened(t *testing.T) {
	ctx := context.Background()
	store := mem.New(mem.WithTypeRegistry(bankaccount.Registry()))
	streamID := "urn:bank-account:opened"

	svc := bankaccount.NewService(store, bankaccount.Services{}, nil)
	initial, err := bankaccount.NewMoney("10.00", "USD")
	require.NoError(t, err)
	_, err = svc.Handle(ctx, streamID, bankaccount.OpenCommand{
		AccountID: streamID,
		Owner:     "Taro",
		Initial:   initial,
	}, nil)
	require.NoError(t, err)

	repo := bankaccount.NewRepository(store)

	loaded, err := repo.Load(ctx, streamID)
	require.NoError(t, err)

	got, err := repo.Get(ctx, streamID)
	require.NoError(t, err)

	assert.Equal(t, loaded.Balance().String(), got.Balance().String())
	assert.Equal(t, loaded.Version(), got.Version())
}
