package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatContext(t *testing.T) {
	assert.Equal(t, NoPairConversations, FormatContext(nil))

	docs := []Document{
		NewDocument(0, 2, 1, "Where were you?", "In the library."),
		NewDocument(0, 2, 2, "Alone?", "With the cook."),
	}
	expected := "Previous conversations with this person:\n" +
		"1. Question: Where were you?\nResponse: In the library.\n" +
		"2. Question: Alone?\nResponse: With the cook.\n"
	assert.Equal(t, expected, FormatContext(docs))
}

func TestPairKeyIsOrdered(t *testing.T) {
	assert.Equal(t, "0-3", PairKey(0, 3))
	assert.NotEqual(t, PairKey(0, 3), PairKey(3, 0))
}

func TestRank(t *testing.T) {
	docs := []Document{
		{Content: "Question: Do you like the garden?\nResponse: Yes.", Turn: 1},
		{Content: "Question: Where is the dagger?\nResponse: No idea.", Turn: 2},
		{Content: "Question: Nice weather?\nResponse: Lovely.", Turn: 3},
		{Content: "Question: Did you see a dagger in the study?\nResponse: No.", Turn: 4},
	}

	ranked := rank(docs, "Tell me about the dagger in the study", 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, 4, ranked[0].Turn, "most overlapping words first")
	assert.Equal(t, 2, ranked[1].Turn)
	assert.Equal(t, 1, ranked[2].Turn)

	tied := []Document{
		{Content: "alpha", Turn: 1},
		{Content: "beta", Turn: 3},
		{Content: "gamma", Turn: 2},
	}
	ranked = rank(tied, "unrelated", 2)
	assert.Equal(t, []int{3, 2}, []int{ranked[0].Turn, ranked[1].Turn}, "ties go to the later turn")

	assert.Len(t, rank(docs, "x", 0), 4, "non-positive k returns everything")
	assert.Empty(t, rank(nil, "x", 3))
}

func TestMemoryContextStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContextStore()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.Add(ctx, NewDocument(0, 1, 1, "Where were you?", "Garden.")))
	require.NoError(t, store.Add(ctx, NewDocument(0, 2, 2, "Where were you?", "Kitchen.")))
	require.NoError(t, store.Add(ctx, NewDocument(1, 0, 3, "Who are you?", "A guest.")))

	docs, err := store.Query(ctx, "where", 3, PairKey(0, 1))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "Garden.")

	docs, err = store.Query(ctx, "where", 3, PairKey(2, 0))
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, _ = store.Count(ctx)
	assert.Equal(t, 3, n)

	require.NoError(t, store.Clear(ctx))
	n, _ = store.Count(ctx)
	assert.Zero(t, n)
	assert.NoError(t, store.Close())
}

func TestLookupContext(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		got, err := LookupContext(ctx, NewMemoryContextStore(), "hello", 0, 1)
		require.NoError(t, err)
		assert.Equal(t, NoConversations, got)
	})

	t.Run("empty pair", func(t *testing.T) {
		store := NewMemoryContextStore()
		require.NoError(t, store.Add(ctx, NewDocument(0, 2, 1, "q", "r")))
		got, err := LookupContext(ctx, store, "hello", 0, 1)
		require.NoError(t, err)
		assert.Equal(t, NoPairConversations, got)
	})

	t.Run("at most three documents", func(t *testing.T) {
		store := NewMemoryContextStore()
		for turn := 1; turn <= 5; turn++ {
			require.NoError(t, store.Add(ctx, NewDocument(0, 1, turn, "Where were you?", "Out.")))
		}
		got, err := LookupContext(ctx, store, "where", 0, 1)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "Previous conversations with this person:\n"))
		assert.Contains(t, got, "3. ")
		assert.NotContains(t, got, "4. ")
	})

	t.Run("store errors surface", func(t *testing.T) {
		store := NewMockContextStore()
		store.CountErr = errors.New("down")
		_, err := LookupContext(ctx, store, "hello", 0, 1)
		assert.Error(t, err)

		store = NewMockContextStore()
		require.NoError(t, store.Add(ctx, NewDocument(0, 1, 1, "q", "r")))
		store.QueryErr = errors.New("down")
		_, err = LookupContext(ctx, store, "hello", 0, 1)
		assert.Error(t, err)
	})
}
