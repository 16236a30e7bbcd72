// Package extractor turns a problem URL into stored problem records: it
// fetches the problem page, follows the first tutorial link to the
// editorial, merges the matching editorial content and persists every
// problem the editorial covers.
package extractor

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/codeforces"
	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/scrape"
	"github.com/sells-group/cf-tutor/internal/store"
)

// Outcome labels reported to an Observer.
const (
	OutcomeSuccess      = "success"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeParseFailed  = "parse_failed"
	OutcomeInvalidURL   = "invalid_url"
	OutcomePersistError = "persist_failed"
)

// Observer receives one outcome per Extract call.
type Observer interface {
	ObserveExtraction(outcome string)
}

// ErrNotFound is returned by Get for unknown identifiers.
var ErrNotFound = eris.New("extractor: problem not found")

// Extractor owns the in-memory problem collection and its backing store.
// It is safe for concurrent use; network fetches run outside the lock.
type Extractor struct {
	fetcher   scrape.Fetcher
	store     store.Store
	editorial *codeforces.EditorialParser
	observer  Observer

	mu   sync.RWMutex
	docs store.Documents
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEditorialParser replaces the default editorial parser.
func WithEditorialParser(p *codeforces.EditorialParser) Option {
	return func(e *Extractor) { e.editorial = p }
}

// WithObserver registers an outcome observer.
func WithObserver(o Observer) Option {
	return func(e *Extractor) { e.observer = o }
}

// New loads the store and returns an Extractor over it. A store that fails
// to load is logged and treated as empty.
func New(ctx context.Context, fetcher scrape.Fetcher, st store.Store, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:   fetcher,
		store:     st,
		editorial: codeforces.NewEditorialParser(nil),
	}
	for _, opt := range opts {
		opt(e)
	}

	docs, err := st.Load(ctx)
	if err != nil {
		zap.L().Warn("extractor: load store failed, starting empty", zap.Error(err))
		docs = store.Documents{}
	}
	e.docs = docs
	zap.L().Info("extractor: loaded problems", zap.Int("count", len(docs)))
	return e
}

// Process extracts targetURL and reports success. All failures are logged
// and absorbed here.
func (e *Extractor) Process(ctx context.Context, targetURL string) bool {
	if _, err := e.Extract(ctx, targetURL); err != nil {
		zap.L().Warn("extractor: process failed", zap.String("url", targetURL), zap.Error(err))
		return false
	}
	return true
}

// Extract runs the full pipeline for targetURL and returns the stored
// target record. The store is left untouched when the problem page cannot
// be fetched or parsed.
func (e *Extractor) Extract(ctx context.Context, targetURL string) (*model.Problem, error) {
	p, err := e.extract(ctx, targetURL)
	if e.observer != nil {
		e.observer.ObserveExtraction(outcome(err))
	}
	return p, err
}

func (e *Extractor) extract(ctx context.Context, targetURL string) (*model.Problem, error) {
	targetURL = strings.TrimSpace(targetURL)
	if codeforces.ProblemIDFromURL(targetURL) == "" {
		return nil, eris.Wrapf(codeforces.ErrInvalidProblemURL, "extractor: %q", targetURL)
	}

	log := zap.L().With(zap.String("url", targetURL))

	res, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, &stageError{stage: OutcomeFetchFailed, err: eris.Wrap(err, "extractor: fetch problem")}
	}
	target, err := codeforces.ParseProblem(res.Page.HTML, targetURL)
	if err != nil {
		return nil, &stageError{stage: OutcomeParseFailed, err: eris.Wrap(err, "extractor: parse problem")}
	}
	log = log.With(zap.String("problem_id", target.ProblemID), zap.String("source", res.Source))
	log.Info("extractor: problem parsed")

	others := e.mergeEditorial(ctx, target, log)

	e.mu.Lock()
	for _, o := range others {
		e.docs[o.ProblemID] = o
	}
	e.docs[target.ProblemID] = target
	snapshot := maps.Clone(e.docs)
	e.mu.Unlock()

	if err := e.store.Save(ctx, snapshot); err != nil {
		return target, &stageError{stage: OutcomePersistError, err: eris.Wrap(err, "extractor: persist")}
	}

	log.Info("extractor: problem stored",
		zap.Int("content", target.TotalContent()),
		zap.Int("seeded", len(others)),
	)
	return target, nil
}

// mergeEditorial follows the first tutorial link, appends the target's
// grouping onto target and returns minimal records for every other grouping.
// Editorial failures are logged and leave target unchanged.
func (e *Extractor) mergeEditorial(ctx context.Context, target *model.Problem, log *zap.Logger) []*model.Problem {
	link, ok := target.TutorialInfo.First()
	if !ok {
		log.Info("extractor: no tutorial link")
		return nil
	}
	log = log.With(zap.String("editorial_url", link.FullURL))

	res, err := e.fetcher.Fetch(ctx, link.FullURL)
	if err != nil {
		log.Warn("extractor: fetch editorial failed", zap.Error(err))
		return nil
	}
	groups, err := e.editorial.Parse(res.Page.HTML)
	if err != nil {
		log.Warn("extractor: parse editorial failed", zap.Error(err))
		return nil
	}

	var others []*model.Problem
	found := false
	for i := range groups {
		g := &groups[i]
		if g.ID == target.ProblemID {
			// Only the first matching grouping is merged, once per run.
			if !found {
				g.MergeInto(target)
				found = true
			}
			continue
		}
		others = append(others, seedRecord(target, g))
	}

	if !found {
		log.Info("extractor: target not in editorial", zap.Int("groupings", len(groups)))
	}
	return others
}

// seedRecord builds the minimal record stored for an editorial grouping
// that was not fetched directly.
func seedRecord(target *model.Problem, g *model.EditorialProblem) *model.Problem {
	p := model.NewProblem(g.ID)
	p.ContestTitle = target.ContestTitle
	p.ProblemTitle = g.Name
	p.TutorialInfo = target.TutorialInfo
	g.MergeInto(p)
	return p
}

// Search looks id up after uppercasing it. Only exact matches are returned.
func (e *Extractor) Search(id string) (*model.Problem, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.docs[codeforces.NormalizeID(id)]
	return p, ok
}

// Get is Search with an error for missing records.
func (e *Extractor) Get(id string) (*model.Problem, error) {
	p, ok := e.Search(id)
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "id %q", id)
	}
	return p, nil
}

// List returns a summary of every stored problem ordered by identifier.
func (e *Extractor) List() []model.ProblemSummary {
	e.mu.RLock()
	out := make([]model.ProblemSummary, 0, len(e.docs))
	for id, p := range e.docs {
		s := p.Summary()
		s.ProblemID = id
		out = append(out, s)
	}
	e.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.ProblemSummary) int {
		return strings.Compare(a.ProblemID, b.ProblemID)
	})
	return out
}

// Count returns the number of stored problems.
func (e *Extractor) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

type stageError struct {
	stage string
	err   error
}

func (s *stageError) Error() string { return s.err.Error() }
func (s *stageError) Unwrap() error { return s.err }

func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var se *stageError
	if errors.As(err, &se) {
		return se.stage
	}
	if eris.Is(err, codeforces.ErrInvalidProblemURL) {
		return OutcomeInvalidURL
	}
	return OutcomeFetchFailed
}
