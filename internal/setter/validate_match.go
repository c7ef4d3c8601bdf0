package setter

import "fmt"

// matchCandidate is the small exact/unique-prefix matcher shared by the
// select and symlink validators, which both resolve a typed value
// against an enumerable candidate set the same way the namespace
// resolver matches tokens against node names — duplicated here rather
// than exported from internal/namespace, since the two match rules are
// similar in shape but operate over different data (node names vs.
// file/line candidates).
func matchCandidate(input string, candidates []string) (match string, err error) {
	for _, c := range candidates {
		if c == input {
			return c, nil
		}
	}
	var prefixed []string
	for _, c := range candidates {
		if len(c) > len(input) && c[:len(input)] == input {
			prefixed = append(prefixed, c)
		}
	}
	switch len(prefixed) {
	case 0:
		return "", invalidf(input, "no match among candidates")
	case 1:
		return prefixed[0], nil
	default:
		return "", invalidf(input, fmt.Sprintf("ambiguous prefix, %d candidates match", len(prefixed)))
	}
}

func completeCandidates(prefix string, candidates []string) []string {
	if prefix == "" {
		return candidates
	}
	var out []string
	for _, c := range candidates {
		if hasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
