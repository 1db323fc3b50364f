package domain

// RewriteLine rebuilds a requirement line with a new operator and version,
// replacing the old constraint wholesale while preserving the leading
// whitespace, the package name as written, and any trailing whitespace and
// comment. The second return value is false when raw does not match the
// requirement grammar.
func RewriteLine(raw string, op Operator, version string) (string, bool) {
	match := requirementPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}

	lead, name, trailing, comment := match[1], match[2], match[5], match[6]
	return lead + name + string(op) + version + trailing + comment, true
}
