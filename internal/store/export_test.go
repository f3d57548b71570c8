package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/qa-keywords/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	_, err := src.Add(ctx, AddParams{Scope: "g1", Keyword: "hi", Priority: 2,
		Values: []ValueInput{ordered("hello", 3), {Type: model.ValueMarkdown, Content: "**hey**"}}})
	require.NoError(t, err)
	_, err = src.Add(ctx, AddParams{Scope: "g1", Keyword: "old", Status: model.StatusArchived,
		Values: []ValueInput{text("gone")}})
	require.NoError(t, err)
	_, err = src.Add(ctx, AddParams{Scope: "g2", Keyword: "hi", Values: []ValueInput{text("other")}})
	require.NoError(t, err)

	records, err := src.ExportAll(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "hi", records[0].Keyword)
	assert.Equal(t, "old", records[1].Keyword)
	require.Len(t, records[0].Values, 2)
	assert.Equal(t, "**hey**", records[0].Values[0].Content, "values ordered by order_num")
	assert.Equal(t, 1, records[0].Values[0].Order)

	all, err := src.ExportAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dst := newTestStore(t)
	n, err := dst.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := src.ListScope(ctx, "g1")
	require.NoError(t, err)
	got, err := dst.ListScope(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := dst.ExportAll(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, model.StatusArchived, again[1].Status)
	assert.Equal(t, 2, again[0].Priority)
}

func TestImportStopsOnInvalidRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	records := []model.EntryRecord{
		{Entry: model.Entry{Scope: "g", Keyword: "ok"}, Values: []model.Value{{Type: model.ValueText, Content: "v"}}},
		{Entry: model.Entry{Scope: "g", Keyword: "empty"}},
		{Entry: model.Entry{Scope: "g", Keyword: "never"}, Values: []model.Value{{Content: "v"}}},
	}
	n, err := s.Import(ctx, records)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, n)
}

func TestStatsAndScopes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Add(ctx, AddParams{Scope: "big", Keyword: "a", Values: []ValueInput{text("1"), text("2")}})
	require.NoError(t, err)
	_, err = s.Add(ctx, AddParams{Scope: "big", Keyword: "a", Values: []ValueInput{text("3")}})
	require.NoError(t, err)
	_, err = s.Add(ctx, AddParams{Scope: "big", Keyword: "b", Values: []ValueInput{text("4")}})
	require.NoError(t, err)
	_, err = s.Add(ctx, AddParams{Scope: "small", Keyword: "c", Status: model.StatusInactive,
		Values: []ValueInput{text("5")}})
	require.NoError(t, err)
	_, err = s.Add(ctx, AddParams{Scope: "small", Keyword: "d", Values: []ValueInput{text("6")}})
	require.NoError(t, err)

	scopes, err := s.ListScopes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ScopeSummary{
		{Scope: "big", Entries: 3, Keywords: 2},
		{Scope: "small", Entries: 1, Keywords: 1},
	}, scopes)

	st, err := s.Stats(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 5, st.TotalEntries)
	assert.Equal(t, 4, st.ActiveEntries)
	assert.Equal(t, 6, st.TotalValues)
	assert.Len(t, st.Scopes, 2)

	st, err = s.Stats(ctx, "", "small")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalEntries)
	assert.Equal(t, 1, st.ActiveEntries)
	assert.Equal(t, 2, st.TotalValues)
	assert.Equal(t, []ScopeSummary{{Scope: "small", Entries: 1, Keywords: 1}}, st.Scopes)

	st, err = s.Stats(ctx, "", "missing")
	require.NoError(t, err)
	assert.Zero(t, st.TotalEntries)
	assert.Empty(t, st.Scopes)
}

func TestStatsAfterClose(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Add(ctx, AddParams{Scope: "g", Keyword: "k", Values: []ValueInput{text("v")}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Stats(ctx, "", "")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NotErrorIs(t, err, ErrPersistence)

	_, err = s.ListScopes(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStatsConcurrentClose(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Add(ctx, AddParams{Scope: "g", Keyword: "k", Values: []ValueInput{text("v")}})
	require.NoError(t, err)

	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Stats(ctx, "", "")
			errs <- err
		}()
	}
	require.NoError(t, s.Close())
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrClosed)
		}
	}
}
