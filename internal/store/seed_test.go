package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/bollywood/internal/store"
	"github.com/SergeyParamoshkin/bollywood/internal/store/memstore"
	"github.com/SergeyParamoshkin/bollywood/internal/validation"
)

func TestSampleIsValid(t *testing.T) {
	assert.NoError(t, validation.New().Struct(store.Sample()))
}

func TestSeedIsIdempotent(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	first, created, err := store.Seed(ctx, s)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.ID.IsZero())

	second, created, err := store.Seed(ctx, s)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	all, err := s.Find(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
