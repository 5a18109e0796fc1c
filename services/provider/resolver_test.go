package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searcherMock struct {
	id      string
	err     error
	queries []string
}

func (m *searcherMock) SearchVideoID(ctx context.Context, q string) (string, error) {
	m.queries = append(m.queries, q)
	return m.id, m.err
}

var inception = Title{Name: "Inception", MediaType: "movie", TMDBID: 27205, Year: 2010}

func TestResolve_SearchProviders(t *testing.T) {
	r := New(nil)
	ctx := context.Background()
	tests := []struct {
		p    Provider
		want string
	}{
		{Netflix, "https://www.netflix.com/search?q=Inception+%282010%29"},
		{Max, "https://play.max.com/search?q=Inception+%282010%29"},
		{Discovery, "https://discoveryplus.com/search?q=Inception+%282010%29"},
		{YouTubeTV, "https://tv.youtube.com/search?q=Inception+%282010%29"},
		{Default, "https://www.google.com/search?q=Inception+%282010%29"},
		{Provider("hulu"), "https://www.google.com/search?q=Inception+%282010%29"},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ctx, inception, tt.p))
		})
	}
}

func TestResolve_NoYear(t *testing.T) {
	u := New(nil).Resolve(context.Background(), Title{Name: "The Office"}, Netflix)
	assert.Equal(t, "https://www.netflix.com/search?q=The+Office", u)
}

func TestResolve_YouTube(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		m := &searcherMock{id: "abc123"}
		u := New(m).Resolve(ctx, inception, YouTube)
		assert.Equal(t, "https://www.youtube.com/watch?v=abc123", u)
		require.Len(t, m.queries, 1)
		assert.Equal(t, "Inception (2010) full movie", m.queries[0])
	})
	t.Run("no results", func(t *testing.T) {
		u := New(&searcherMock{}).Resolve(ctx, inception, YouTube)
		assert.Equal(t, "https://www.youtube.com/results?search_query=Inception+%282010%29+full+movie", u)
	})
	t.Run("search error", func(t *testing.T) {
		u := New(&searcherMock{err: errors.New("quota")}).Resolve(ctx, inception, YouTube)
		assert.True(t, strings.HasPrefix(u, "https://www.youtube.com/results?search_query="))
	})
	t.Run("no searcher", func(t *testing.T) {
		u := New(nil).Resolve(ctx, inception, YouTube)
		assert.True(t, strings.HasPrefix(u, "https://www.youtube.com/results?search_query="))
	})
}

func TestResolveAll_Order(t *testing.T) {
	links := New(nil).ResolveAll(context.Background(), inception)
	require.Len(t, links, 5)
	var got []Provider
	for _, l := range links {
		got = append(got, l.Provider)
		assert.NotEmpty(t, l.URL)
	}
	assert.Equal(t, []Provider{Netflix, Max, Discovery, YouTube, YouTubeTV}, got)
	assert.Equal(t, "Netflix", links[0].Name)
}
