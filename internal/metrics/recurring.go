package metrics

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// Two deliberately different fingerprints feed two report views and must stay independent:
// the frequent-problems view keys on up to five words longer than two characters, the history
// view on the first three words.
const (
	frequentKeyWords = 5
	historyKeyWords  = 3
	minWordLength    = 3
	minOccurrences   = 2
)

// \w is ASCII-only: accented letters are dropped along with punctuation. Unicode spaces such as
// U+00A0 are kept so they still separate words.
var nonWordChars = regexp.MustCompile(`[^\w\s\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ProblemGroup is a cluster of tickets sharing a title fingerprint.
type ProblemGroup struct {
	Key            string     `json:"key"`
	Title          string     `json:"title"`
	Occurrences    int        `json:"occurrences"`
	LastOccurrence *time.Time `json:"last_occurrence"`
	TicketIDs      []string   `json:"ticket_ids"`
}

// NormalizeTitle lowercases a title, drops non-word characters and trims it.
func NormalizeTitle(title string) string {
	return strings.TrimFunc(nonWordChars.ReplaceAllString(strings.ToLower(title), ""), isSpace)
}

// FrequentKey fingerprints a title with its first five significant words.
func FrequentKey(title string) string {
	words := make([]string, 0, frequentKeyWords)
	for _, w := range strings.FieldsFunc(NormalizeTitle(title), isSpace) {
		if utf8.RuneCountInString(w) < minWordLength {
			continue
		}
		words = append(words, w)
		if len(words) == frequentKeyWords {
			break
		}
	}
	return strings.Join(words, " ")
}

// HistoryKey fingerprints a title with its first three words.
func HistoryKey(title string) string {
	words := strings.FieldsFunc(NormalizeTitle(title), isSpace)
	if len(words) > historyKeyWords {
		words = words[:historyKeyWords]
	}
	return strings.Join(words, " ")
}

// FrequentProblems clusters tickets by FrequentKey.
func FrequentProblems(tickets []domain.Ticket) []ProblemGroup {
	return clusterTitles(tickets, FrequentKey)
}

// ProblemHistory clusters tickets by HistoryKey.
func ProblemHistory(tickets []domain.Ticket) []ProblemGroup {
	return clusterTitles(tickets, HistoryKey)
}

func clusterTitles(tickets []domain.Ticket, keyOf func(string) string) []ProblemGroup {
	var groups []*ProblemGroup
	byKey := make(map[string]*ProblemGroup)
	for _, t := range tickets {
		key := keyOf(t.Title)
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &ProblemGroup{Key: key, Title: t.Title}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Occurrences++
		g.TicketIDs = append(g.TicketIDs, t.ID)
		if t.CreatedAt.Valid() && (g.LastOccurrence == nil || t.CreatedAt.After(*g.LastOccurrence)) {
			g.LastOccurrence = t.CreatedAt.Ptr()
		}
	}

	out := make([]ProblemGroup, 0, len(groups))
	for _, g := range groups {
		if g.Occurrences >= minOccurrences {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Occurrences > out[j].Occurrences })
	return out
}
