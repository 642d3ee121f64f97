package printing

import (
	"sort"
	"strconv"
	"strings"
)

// Unbounded is the page bound used when a document's page count is not known yet
const Unbounded = -1

// MaxUnboundedPage caps ranges parsed without a known page count
const MaxUnboundedPage = 10000

// ParsePageRanges turns an expression like "1-3, 5, 8-10" into ascending,
// deduplicated, 0-indexed page numbers. Input pages are 1-indexed.
//
// An empty expression selects every page in [0, maxPage), or nothing when
// maxPage is Unbounded. maxPage is clamped to MaxUnboundedPage. Tokens that are not numbers and reversed ranges
// contribute nothing, and pages outside [1, maxPage] are dropped one by one;
// the rest of the expression still applies.
func ParsePageRanges(expr string, maxPage int) []int {
	bounded := maxPage >= 0
	upper := min(maxPage, MaxUnboundedPage)
	if !bounded {
		upper = MaxUnboundedPage
	}

	if strings.TrimSpace(expr) == "" {
		if !bounded {
			return []int{}
		}
		pages := make([]int, upper)
		for i := range pages {
			pages[i] = i
		}
		return pages
	}

	seen := make(map[int]struct{})
	for _, token := range strings.Split(expr, ",") {
		start, end, ok := parseRangeToken(strings.TrimSpace(token))
		if !ok {
			continue
		}
		start = max(start, 1)
		end = min(end, upper)
		for p := start; p <= end; p++ {
			seen[p-1] = struct{}{}
		}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

func parseRangeToken(token string) (int, int, bool) {
	if token == "" {
		return 0, 0, false
	}
	if before, after, found := strings.Cut(token, "-"); found {
		start, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return 0, 0, false
		}
		end, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil || start > end {
			return 0, 0, false
		}
		return start, end, true
	}
	page, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return page, page, true
}
