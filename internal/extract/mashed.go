package extract

import (
	"regexp"
	"strings"

	"github.com/brogergvhs/polscrape/internal/model"
)

var reLabel = regexp.MustCompile(`([A-Za-z\s]+):`)

type labelSpan struct {
	key        string
	start, end int // start of the label, end just past its colon
}

// ParseMashed splits free text such as "Status: Active Premium: $120" into
// ordered label/value pairs. It returns an empty map when no label is found.
//
// A label is a run of letters and spaces followed by a colon. When such a run
// starts right after the previous label's colon and has more than one word,
// its first word is the previous label's value.
func ParseMashed(s string) *model.Fields {
	out := model.NewFields()

	var labels []labelSpan
	for _, m := range reLabel.FindAllStringSubmatchIndex(s, -1) {
		run := s[m[2]:m[3]]
		if strings.TrimSpace(run) == "" {
			continue
		}

		l := labelSpan{key: strings.TrimSpace(run), start: m[0], end: m[1]}
		if n := len(labels); n > 0 && strings.TrimSpace(s[labels[n-1].end:m[0]]) == "" {
			if words := strings.Fields(run); len(words) > 1 {
				l.start = m[2] + strings.Index(run, words[0]) + len(words[0])
				l.key = strings.TrimSpace(s[l.start:m[3]])
			}
		}
		labels = append(labels, l)
	}

	for i, l := range labels {
		end := len(s)
		if i+1 < len(labels) {
			end = labels[i+1].start
		}
		out.Set(l.key, strings.TrimSpace(s[l.end:end]))
	}

	return out
}
