package ignore

import "strings"

// anchorPattern rewrites a pattern declared by the rule file at relDir (the
// declaring directory relative to the tree root, slash-separated, "" for the
// root itself) so that it matches against root-relative paths. Rule-file
// semantics scope every pattern to the directory containing its file; the
// rewrite prefixes that directory onto the pattern body. The "!" negation
// prefix survives the rewrite untouched.
func anchorPattern(pattern, relDir string) string {
	negated := strings.HasPrefix(pattern, "!")
	body := strings.TrimPrefix(pattern, "!")

	if relDir != "" {
		if strings.HasPrefix(body, "/") {
			// Rule-file-absolute anchor: the body supplies the separator.
			body = relDir + body
		} else {
			body = relDir + "/" + body
		}
	}

	if negated {
		return "!" + body
	}
	return body
}
