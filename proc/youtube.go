package proc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/leeineian/maronn/sys"
	"github.com/lrstanley/go-ytdlp"
	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
)

const (
	relatedMixSize  = 20
	lookupFormat    = "%(id)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(view_count)s\t%(is_live)s\t%(webpage_url)s"
	flatEntryFormat = "%(id)s\t%(title)s\t%(uploader)s\t%(duration)s"
)

// YouTubeProvider searches YouTube Music and YouTube concurrently and uses
// yt-dlp for link metadata and related-track mixes.
type YouTubeProvider struct{}

func NewYouTubeProvider() *YouTubeProvider {
	return &YouTubeProvider{}
}

// Search merges YouTube Music results (first) with YouTube results, dropping
// duplicate video IDs. Whatever has arrived when ctx ends is returned.
func (p *YouTubeProvider) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	var (
		mu       sync.Mutex
		ytm, yt  []Track
		errs     []error
		seen     = make(map[string]bool)
		wg       sync.WaitGroup
		appendTo = func(dst *[]Track, id, title, author string) {
			mu.Lock()
			defer mu.Unlock()
			if id == "" || seen[id] {
				return
			}
			seen[id] = true
			*dst = append(*dst, Track{
				Title:     title,
				Author:    author,
				URL:       canonicalURL(id),
				Thumbnail: thumbnailURL(id),
			})
		}
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r, err := ytmusic.TrackSearch(query).Next()
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return
		}
		for _, v := range r.Tracks {
			author := ""
			if len(v.Artists) > 0 {
				author = v.Artists[0].Name
			}
			appendTo(&ytm, v.VideoID, v.Title, author)
		}
	}()
	go func() {
		defer wg.Done()
		r, err := ytsearch.NewClient(nil).Search(ctx, query)
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return
		}
		for _, v := range r.Results {
			appendTo(&yt, v.VideoID, v.Title, "")
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	out := append(append([]Track(nil), ytm...), yt...)
	if len(out) == 0 && len(errs) == 2 {
		return nil, errors.Join(errs...)
	}
	if len(out) == 0 && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Lookup resolves a link to full metadata without downloading it.
func (p *YouTubeProvider) Lookup(ctx context.Context, url string) (Track, error) {
	res, err := ytdlp.New().
		Print(lookupFormat).
		NoPlaylist().
		NoWarnings().
		IgnoreConfig().
		Run(ctx, "--skip-download", url)
	if err != nil {
		if res != nil && strings.Contains(strings.ToLower(res.Stderr), "drm") {
			return Track{}, &ProviderError{Code: "DRM", Message: "this source is DRM protected", Err: err}
		}
		sys.LogWarn(sys.MsgSearchLookupFailed, url, err)
		return Track{}, err
	}
	t, ok := parseLookupOutput(res.Stdout)
	if !ok {
		return Track{}, ErrNoTracksFound
	}
	return t, nil
}

// Related walks the YouTube radio mix for seed and returns the first entry
// that is neither the seed nor in exclude.
func (p *YouTubeProvider) Related(ctx context.Context, seed Track, exclude []string) (Track, error) {
	id := extractVideoID(seed.URL)
	if id == "" {
		tracks, err := p.Search(ctx, strings.TrimSpace(seed.Title+" "+seed.Author), 5)
		if err != nil {
			return Track{}, err
		}
		return pickRelated(tracks, "", exclude)
	}

	res, err := ytdlp.New().
		FlatPlaylist().
		Print(flatEntryFormat).
		PlaylistItems(fmt.Sprintf("1-%d", relatedMixSize)).
		NoWarnings().
		IgnoreConfig().
		Run(ctx, "https://www.youtube.com/watch?v="+id+"&list=RD"+id)
	if err != nil {
		sys.LogWarn(sys.MsgSearchRelatedFailed, seed.URL, err)
		return Track{}, err
	}
	return pickRelated(parseFlatEntries(res.Stdout), id, exclude)
}

func pickRelated(candidates []Track, seedID string, exclude []string) (Track, error) {
	skip := make(map[string]bool, len(exclude)+1)
	if seedID != "" {
		skip[seedID] = true
	}
	for _, u := range exclude {
		if id := extractVideoID(u); id != "" {
			skip[id] = true
		} else {
			skip[u] = true
		}
	}
	for _, t := range candidates {
		id := extractVideoID(t.URL)
		if id == "" || skip[id] || skip[t.URL] {
			continue
		}
		return t, nil
	}
	return Track{}, ErrNoTracksFound
}

func parseLookupOutput(stdout string) (Track, bool) {
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		ps := strings.Split(line, "\t")
		if len(ps) < 7 {
			continue
		}
		id, title := naField(ps[0]), naField(ps[1])
		if title == "" {
			continue
		}
		t := Track{
			Title:    title,
			Author:   naField(ps[2]),
			Duration: parseSeconds(ps[3]),
			Live:     strings.EqualFold(naField(ps[5]), "true"),
			URL:      naField(ps[6]),
		}
		if v, err := strconv.ParseInt(naField(ps[4]), 10, 64); err == nil {
			t.Views = v
		}
		if id != "" && isYouTubeURL(t.URL) {
			t.URL = canonicalURL(id)
			t.Thumbnail = thumbnailURL(id)
		}
		if t.URL == "" {
			continue
		}
		return t, true
	}
	return Track{}, false
}

func parseFlatEntries(stdout string) []Track {
	var out []Track
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		ps := strings.Split(line, "\t")
		if len(ps) < 4 {
			continue
		}
		id := naField(ps[0])
		if id == "" {
			continue
		}
		out = append(out, Track{
			Title:     naField(ps[1]),
			Author:    naField(ps[2]),
			Duration:  parseSeconds(ps[3]),
			URL:       canonicalURL(id),
			Thumbnail: thumbnailURL(id),
		})
	}
	return out
}

// naField maps yt-dlp's "NA" placeholder to empty.
func naField(s string) string {
	s = strings.TrimSpace(s)
	if s == "NA" || s == "None" {
		return ""
	}
	return s
}

func parseSeconds(s string) time.Duration {
	s = naField(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ":") {
		return sys.ParseColonDuration(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

func canonicalURL(id string) string {
	return "https://youtu.be/" + id
}

func thumbnailURL(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}

func isYouTubeURL(u string) bool {
	u = strings.ToLower(u)
	return strings.Contains(u, "youtube.com/") || strings.Contains(u, "youtu.be/")
}

func extractVideoID(u string) string {
	for _, marker := range []string{"v=", "youtu.be/", "shorts/"} {
		i := strings.Index(u, marker)
		if i < 0 {
			continue
		}
		rest := u[i+len(marker):]
		if j := strings.IndexAny(rest, "&?#/"); j >= 0 {
			rest = rest[:j]
		}
		if rest != "" {
			return rest
		}
	}
	return ""
}
