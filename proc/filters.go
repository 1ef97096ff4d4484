package proc

import (
	"strings"
)

// FilterDefault clears every enabled filter when toggled.
const FilterDefault = "default"

type audioFilter struct {
	Name string
	Expr string
}

// filterCatalog is ordered; enabled sets are always reported in this order.
var filterCatalog = []audioFilter{
	{FilterDefault, ""},
	{"bassboost_low", "bass=g=15:f=110:w=0.3"},
	{"bassboost", "bass=g=20:f=110:w=0.3"},
	{"bassboost_high", "bass=g=30:f=110:w=0.3"},
	{"8D", "apulsator=hz=0.09"},
	{"vaporwave", "aresample=48000,asetrate=48000*0.8"},
	{"nightcore", "aresample=48000,asetrate=48000*1.25"},
	{"lofi", "aresample=48000,asetrate=48000*0.9,extrastereo=m=2.5:c=disabled"},
	{"phaser", "aphaser=in_gain=0.4"},
	{"tremolo", "tremolo"},
	{"vibrato", "vibrato=f=6.5"},
	{"reverse", "areverse"},
	{"treble", "treble=g=5"},
	{"normalizer", "dynaudnorm=g=101"},
	{"normalizer2", "acompressor"},
	{"surrounding", "surround"},
	{"pulsator", "apulsator=hz=1"},
	{"subboost", "asubboost"},
	{"karaoke", "stereotools=mlev=0.03"},
	{"flanger", "flanger"},
	{"gate", "agate"},
	{"haas", "haas"},
	{"mcompand", "mcompand"},
	{"mono", "pan=mono|c0=.5*c0+.5*c1"},
	{"mstlr", "stereotools=mode=ms>lr"},
	{"mstrr", "stereotools=mode=ms>rr"},
	{"compressor", "compand=points=-80/-105|-62/-80|-15.4/-15.4|0/-12|20/-7.6"},
	{"expander", "compand=attacks=0:points=-80/-169|-54/-80|-49.5/-64.6|-41.1/-41.1|-25.8/-15|-10.8/-4.5|0/0|20/8.3"},
	{"softlimiter", "compand=attacks=0:points=-80/-80|-12.4/-12.4|-6/-8|0/-6.8|20/-2.8"},
	{"chorus", "chorus=0.7:0.9:55:0.4:0.25:2"},
	{"chorus2d", "chorus=0.6:0.9:50|60:0.4|0.32:0.25|0.4:2|1.3"},
	{"chorus3d", "chorus=0.5:0.9:50|60|40:0.4|0.32|0.3:0.25|0.4|0.3:2|2.3|1.3"},
	{"fadein", "afade=t=in:ss=0:d=10"},
	{"dim", `afftfilt="'real=re * (1-clip((b/nb)*b,0,1))':imag='im * (1-clip((b/nb)*b,0,1))'"`},
	{"earrape", "channelsplit,sidechaingate=level_in=64"},
	{"silenceremove", "silenceremove=1:0:-50dB"},
	{"echo", "aecho=0.8:0.88:60:0.4"},
}

var filterIndex = func() map[string]int {
	m := make(map[string]int, len(filterCatalog))
	for i, f := range filterCatalog {
		m[f.Name] = i
	}
	return m
}()

// FilterNames returns the catalog names in order, including the sentinel.
func FilterNames() []string {
	names := make([]string, len(filterCatalog))
	for i, f := range filterCatalog {
		names[i] = f.Name
	}
	return names
}

func IsValidFilter(name string) bool {
	_, ok := filterIndex[name]
	return ok
}

// ToggleFilters returns the enabled set after toggling requested against
// current. The sentinel clears everything; unknown or repeated names are
// ignored. The input slice is not modified.
func ToggleFilters(current []string, requested ...string) []string {
	enabled := make(map[string]bool, len(current))
	for _, name := range current {
		if IsValidFilter(name) && name != FilterDefault {
			enabled[name] = true
		}
	}

	seen := make(map[string]bool, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == FilterDefault {
			return []string{}
		}
		if !IsValidFilter(name) || seen[name] {
			continue
		}
		seen[name] = true
		enabled[name] = !enabled[name]
	}

	out := make([]string, 0, len(enabled))
	for _, f := range filterCatalog {
		if enabled[f.Name] {
			out = append(out, f.Name)
		}
	}
	return out
}

// FormatFilters renders the enabled set for display.
func FormatFilters(enabled []string) string {
	if len(enabled) == 0 {
		return "None"
	}
	return strings.Join(enabled, ", ")
}

// FilterChain joins the ffmpeg expressions for the enabled filters.
func FilterChain(enabled []string) string {
	exprs := make([]string, 0, len(enabled))
	for _, name := range enabled {
		if i, ok := filterIndex[name]; ok && filterCatalog[i].Expr != "" {
			exprs = append(exprs, filterCatalog[i].Expr)
		}
	}
	return strings.Join(exprs, ",")
}

// MatchFilters returns catalog names containing prefix, for autocomplete.
func MatchFilters(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, f := range filterCatalog {
		if prefix == "" || strings.Contains(strings.ToLower(f.Name), prefix) {
			out = append(out, f.Name)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
