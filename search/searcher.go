package search

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/config"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
)

// Searcher fans a query out to every configured provider, merges the
// results and guards against stale responses: only the most recent
// search is allowed to deliver results.
type Searcher struct {
	providers []Provider
	debouncer *Debouncer
	seq       atomic.Uint64
}

func NewSearcher(providers ...Provider) *Searcher {
	quiet := time.Duration(config.Opts.SearchDebounceMs) * time.Millisecond
	return &Searcher{
		providers: providers,
		debouncer: NewDebouncer(quiet),
	}
}

// FromConfig builds the provider set the original clients talked to.
// MetasBooks only joins when its API key is configured.
func FromConfig(secrets config.Secrets) *Searcher {
	timeout := time.Duration(config.Opts.SearchTimeout) * time.Second
	perSec := config.Opts.SearchRatePerSec
	limit := config.Opts.SearchLimit

	// Each provider gets its own client so one slow catalog cannot
	// consume another's rate budget.
	providers := []Provider{
		NewGoogleBooks(newClient(timeout, perSec), limit),
		NewOpenLibrary(newClient(timeout, perSec), limit),
	}
	if secrets.MetasBooksKey != "" {
		providers = append(providers, NewMetasBooks(newClient(timeout, perSec), secrets.MetasBooksKey, limit))
	}
	return NewSearcher(providers...)
}

// Search queries all providers concurrently. A provider failure is
// logged and contributes an empty slice, it never blocks the merge.
// When a newer search has started before this one finishes, the whole
// result set is dropped with ErrSuperseded.
func (s *Searcher) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	mine := s.seq.Add(1)

	perProvider := make([][]model.Candidate, len(s.providers))
	var wg sync.WaitGroup
	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			results, err := p.Search(ctx, query)
			if err != nil {
				log.Warn("Search provider failed",
					zap.String("provider", p.Name()),
					zap.String("query", query),
					zap.Error(err))
				return
			}
			perProvider[i] = results
		}(i, p)
	}
	wg.Wait()

	if mine != s.seq.Load() {
		return nil, errors.Wrapf(model.ErrSuperseded, "search %q", query)
	}

	return rank(query, merge(perProvider)), nil
}

// SearchDebounced waits out the quiet period first, so a burst of
// keystrokes issues a single upstream round instead of one per key.
func (s *Searcher) SearchDebounced(ctx context.Context, query string) ([]model.Candidate, error) {
	if err := s.debouncer.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Search(ctx, query)
}

// merge flattens the per-provider slices in registration order and
// drops later duplicates of the same title|author|year key. First
// occurrence wins, which key of equal candidates survives carries no
// meaning.
func merge(perProvider [][]model.Candidate) []model.Candidate {
	seen := make(map[string]struct{})
	merged := make([]model.Candidate, 0)
	for _, results := range perProvider {
		for _, c := range results {
			key := c.MergeKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

// rank orders candidates by fuzzy closeness of their title to the
// query, non-matches keep their merge order at the tail.
func rank(query string, candidates []model.Candidate) []model.Candidate {
	type ranked struct {
		c    model.Candidate
		rank int
	}
	rs := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		rs = append(rs, ranked{c: c, rank: fuzzy.RankMatchNormalizedFold(query, c.Title)})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		ri, rj := rs[i].rank, rs[j].rank
		if ri < 0 {
			return false
		}
		if rj < 0 {
			return true
		}
		return ri < rj
	})
	out := make([]model.Candidate, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.c)
	}
	return out
}
