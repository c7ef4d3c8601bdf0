package namespace

import "sort"

// category tags a candidate name with which bucket it came from, so an
// Ambiguous node can report per-category lists.
type category int

const (
	catContainer category = iota
	catCommand
	catBuiltin
	catKey
	catRequiredKey
	catValue
)

type candidate struct {
	name string
	cat  category
}

// matchResult is the outcome of matching a token against a tagged
// candidate set: either no match, an exact match, a single unique
// prefix match, or more than one prefix match (ambiguous).
type matchResult struct {
	exact      *candidate
	unique     *candidate
	ambiguous  []candidate
}

func matchToken(token string, candidates []candidate) matchResult {
	for _, c := range candidates {
		if c.name == token {
			cc := c
			return matchResult{exact: &cc}
		}
	}
	var prefixMatches []candidate
	for _, c := range candidates {
		if len(c.name) > len(token) && c.name[:len(token)] == token {
			prefixMatches = append(prefixMatches, c)
		}
	}
	switch len(prefixMatches) {
	case 0:
		return matchResult{}
	case 1:
		cc := prefixMatches[0]
		return matchResult{unique: &cc}
	default:
		return matchResult{ambiguous: prefixMatches}
	}
}

// longestCommonRemainder is the longest string R such that every name
// in names starts with prefix+R.
func longestCommonRemainder(prefix string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	lcp := names[0][len(prefix):]
	for _, n := range names[1:] {
		lcp = commonPrefix(lcp, n[len(prefix):])
		if lcp == "" {
			break
		}
	}
	return lcp
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// namesByCategory groups ambiguous candidates back into the per-category
// slices Ambiguous carries, each sorted for deterministic output.
func namesByCategory(cands []candidate) (containers, commands, builtins, keys, requires, values []string) {
	byCat := map[category][]string{}
	for _, c := range cands {
		byCat[c.cat] = append(byCat[c.cat], c.name)
	}
	for _, s := range byCat {
		sort.Strings(s)
	}
	return byCat[catContainer], byCat[catCommand], byCat[catBuiltin],
		byCat[catKey], byCat[catRequiredKey], byCat[catValue]
}
