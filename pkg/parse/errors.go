package parse

import "github.com/samber/oops"

// Error is a parse-time fault (spec §7.1): unbalanced brackets, a
// malformed inference or proof block, a missing rule name on a
// non-assumption line, or a reference to an unknown inference rule.
// Parse errors are the only errors this package surfaces to callers as
// Go errors — verification results are always values (spec §7.3).
func newParseError(file string, line int, format string, args ...any) error {
	return oops.
		In("parse").
		Code("parse_error").
		With("file", file).
		With("line", line).
		Errorf(format, args...)
}
