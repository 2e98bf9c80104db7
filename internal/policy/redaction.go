package policy

import "regexp"

type rule struct {
	pattern *regexp.Regexp
	mask    string
}

// People confide in the companion and routinely paste their own contact
// details and account numbers mid-conversation. Rule order matters: the SSN
// and card rules run before phone so their digit runs are not half-eaten by
// the looser phone pattern.
var rules = []rule{
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED_SSN]"},
	{regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[REDACTED_CARD]"},
	{regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`), "[REDACTED_PHONE]"},
}

// RedactPII masks common high-risk PII patterns before a message is written
// to long-lived chat history. The live conversation keeps the raw text; only
// the archive sees the masked form.
func RedactPII(input string) (redacted string, changed bool) {
	out := input
	for _, r := range rules {
		next := r.pattern.ReplaceAllString(out, r.mask)
		changed = changed || next != out
		out = next
	}
	return out, changed
}
