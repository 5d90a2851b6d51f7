package capture

import "regexp"

// Markdown sniffing mirrors what the mobile editor does: a note that carries
// any common markdown construct gets rendered as markdown, everything else
// stays plain text.
var markdownRes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6} \S`),              // headings
	regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.) \S`),    // list items
	regexp.MustCompile("(?m)^```"),                    // fenced code
	regexp.MustCompile("`[^`\n]+`"),                   // inline code
	regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`), // bold
	regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]+\)`),     // links
	regexp.MustCompile(`(?m)^> \S`),                   // blockquotes
}

// HasMarkdown reports whether free text looks like it was written with
// markdown formatting.
func HasMarkdown(text string) bool {
	for _, re := range markdownRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
