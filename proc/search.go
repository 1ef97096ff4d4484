package proc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
	"golang.org/x/time/rate"
)

const (
	MaxCandidates     = 9
	MaxCandidateName  = 99
	MaxCandidateValue = 100

	DefaultSearchTimeout = 2600 * time.Millisecond
	DefaultPlayTimeout   = 15 * time.Second
)

// SearchProvider is the external track index.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]Track, error)
	Lookup(ctx context.Context, url string) (Track, error)
	Related(ctx context.Context, seed Track, exclude []string) (Track, error)
}

// HistoryStore remembers what a guild played so autoplay avoids repeats.
type HistoryStore interface {
	Record(ctx context.Context, guildID snowflake.ID, url string) error
	Recent(ctx context.Context, guildID snowflake.ID, limit int) ([]string, error)
}

// Candidate is one autocomplete choice.
type Candidate struct {
	Name  string
	Value string
}

type ResolverOptions struct {
	SearchTimeout time.Duration
	PlayTimeout   time.Duration
	// AutocompleteRate caps autocomplete searches per second; zero disables the cap.
	AutocompleteRate float64
}

// Resolver turns user queries into tracks with bounded waits.
type Resolver struct {
	provider      SearchProvider
	searchTimeout time.Duration
	playTimeout   time.Duration
	limiter       *rate.Limiter
}

func NewResolver(provider SearchProvider, opts ResolverOptions) *Resolver {
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultSearchTimeout
	}
	if opts.PlayTimeout <= 0 {
		opts.PlayTimeout = DefaultPlayTimeout
	}
	r := &Resolver{
		provider:      provider,
		searchTimeout: opts.SearchTimeout,
		playTimeout:   opts.PlayTimeout,
	}
	if opts.AutocompleteRate > 0 {
		burst := int(opts.AutocompleteRate * 2)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.AutocompleteRate), burst)
	}
	return r
}

// HasURLMarker reports whether q looks like a link rather than search text.
func HasURLMarker(q string) bool {
	lower := strings.ToLower(q)
	return strings.Contains(lower, "https://") || strings.Contains(lower, "http://")
}

// NormalizeQuery trims q and, for links, drops everything from the first '&'
// so playlist and tracking parameters do not reach the provider.
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if HasURLMarker(q) {
		if i := strings.Index(q, "&"); i >= 0 {
			q = q[:i]
		}
	}
	return strings.TrimSpace(q)
}

// Autocomplete returns at most MaxCandidates suggestions. Failures, timeouts
// and throttling all produce an empty list.
func (r *Resolver) Autocomplete(ctx context.Context, query string) []Candidate {
	q := strings.TrimSpace(query)
	if len([]rune(q)) <= 1 || HasURLMarker(q) {
		return nil
	}
	if r.limiter != nil && !r.limiter.Allow() {
		sys.LogDebug(sys.MsgSearchThrottled, q)
		return nil
	}

	tracks, err := boundedCall(ctx, r.searchTimeout, func(ctx context.Context) ([]Track, error) {
		return r.provider.Search(ctx, q, MaxCandidates)
	})
	if err != nil {
		if errors.Is(err, ErrSearchTimeout) {
			sys.LogDebug(sys.MsgSearchTimeout, q, r.searchTimeout)
		} else {
			sys.LogWarn(sys.MsgSearchFailed, q, err)
		}
		return nil
	}

	out := make([]Candidate, 0, min(len(tracks), MaxCandidates))
	for _, t := range tracks {
		if len(out) >= MaxCandidates {
			break
		}
		out = append(out, candidateFor(t))
	}
	return out
}

func candidateFor(t Track) Candidate {
	author := t.Author
	if author == "" {
		author = sys.MsgUnknownAuthor
	}
	name := sys.TruncateRunes(t.Title+" - "+author, MaxCandidateName)

	value := t.URL
	if i := strings.Index(value, "?"); i >= 0 {
		value = value[:i]
	}
	if value == "" || len(value) > MaxCandidateValue {
		value = name
	}
	return Candidate{Name: name, Value: value}
}

// Resolve returns the single best match for query. Links are looked up
// directly; text goes through search.
func (r *Resolver) Resolve(ctx context.Context, query string) (Track, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return Track{}, ErrNoTracksFound
	}

	sys.LogSearch(sys.MsgSearchStarting, q)
	if HasURLMarker(q) {
		t, err := boundedCall(ctx, r.playTimeout, func(ctx context.Context) (Track, error) {
			return r.provider.Lookup(ctx, q)
		})
		if err != nil {
			return Track{}, err
		}
		if t.URL == "" {
			return Track{}, ErrNoTracksFound
		}
		return t, nil
	}

	tracks, err := boundedCall(ctx, r.playTimeout, func(ctx context.Context) ([]Track, error) {
		return r.provider.Search(ctx, q, 1)
	})
	if err != nil {
		return Track{}, err
	}
	sys.LogSearch(sys.MsgSearchFound, len(tracks), q)
	if len(tracks) == 0 {
		return Track{}, ErrNoTracksFound
	}
	return tracks[0], nil
}

// Related asks the provider for a follow-up to seed, skipping exclude.
func (r *Resolver) Related(ctx context.Context, seed Track, exclude []string) (Track, error) {
	return boundedCall(ctx, r.playTimeout, func(ctx context.Context) (Track, error) {
		return r.provider.Related(ctx, seed, exclude)
	})
}

// boundedCall races fn against d. On expiry it returns ErrSearchTimeout and
// cancels fn's context; fn's late result is discarded.
func boundedCall[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	var zero T
	select {
	case res := <-ch:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
			return zero, ErrSearchTimeout
		}
		return res.v, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrSearchTimeout
		}
		return zero, ctx.Err()
	}
}
