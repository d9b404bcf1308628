package ai

import (
	"regexp"
	"strings"
)

// Reasoning models leak chain-of-thought wrapped in think tags, strip
// it before the text reaches a user
var (
	thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkTail  = regexp.MustCompile(`(?is)<think>.*`)
)

func CleanResponse(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = thinkTail.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
