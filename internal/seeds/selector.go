package seeds

import (
	"strconv"
	"strings"
)

// Filter selects seeds by a 1-based inclusive range ("2-5") or, when rng is
// empty, a comma separated index list ("1,3,7"). With neither, all seeds are
// returned.
func Filter(all []Seed, rng, list string) []Seed {
	if rng != "" {
		return FilterRange(all, rng)
	}
	if list != "" {
		return FilterList(all, list)
	}

	return all
}

func FilterRange(all []Seed, rng string) []Seed {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil
	}
	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || end <= 0 || start > end || end > len(all) {
		return nil
	}

	return all[start-1 : end]
}

func FilterList(all []Seed, list string) []Seed {
	out := []Seed{}
	for n := range strings.SplitSeq(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		idx, err := atoi(n)
		if err != nil {
			continue
		}
		if idx > 0 && idx <= len(all) {
			out = append(out, all[idx-1])
		}
	}

	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
