package recommend

import (
	"context"

	"github.com/cinehub-io/web-ui/services/tmdb"
	"github.com/pkg/errors"
)

// PoolSize is how many trending titles are considered for download suggestions.
const PoolSize = 100

// LibraryPredicate reports whether a title is already owned.
type LibraryPredicate func(ctx context.Context, tmdbID int, mediaType string) (bool, error)

// Recommend keeps candidates in order, dropping owned ones, until limit
// titles are collected. Candidates without id are skipped.
func Recommend(ctx context.Context, candidates []tmdb.Title, inLibrary LibraryPredicate, limit int) ([]tmdb.Title, error) {
	res := []tmdb.Title{}
	if limit <= 0 {
		return res, nil
	}
	for _, c := range candidates {
		if len(res) >= limit {
			break
		}
		if c.ID == 0 {
			continue
		}
		owned, err := inLibrary(ctx, c.ID, c.ResolvedMediaType())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check %v %d", c.ResolvedMediaType(), c.ID)
		}
		if !owned {
			res = append(res, c)
		}
	}
	return res, nil
}

type TrendingGetter interface {
	GetTrending(ctx context.Context, limit int) ([]tmdb.Title, error)
}

type LibraryChecker interface {
	IsInLibrary(ctx context.Context, tmdbID int, mediaType string) (bool, error)
}

type Recommender struct {
	tg TrendingGetter
	lc LibraryChecker
}

func New(tg TrendingGetter, lc LibraryChecker) *Recommender {
	return &Recommender{
		tg: tg,
		lc: lc,
	}
}

// RecommendDownload suggests trending titles missing from the library.
func (s *Recommender) RecommendDownload(ctx context.Context, limit int) ([]tmdb.Title, error) {
	if limit <= 0 {
		return []tmdb.Title{}, nil
	}
	pool, err := s.tg.GetTrending(ctx, PoolSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidates")
	}
	return Recommend(ctx, pool, s.lc.IsInLibrary, limit)
}
