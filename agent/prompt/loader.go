package prompt

import (
	_ "embed"
	"strings"
	"time"
)

//go:embed template/system.txt
var systemRaw string

// System returns the per-request system prompt. It is synthesized for every
// request (the current date drives relative-date resolution) and is never
// persisted with the conversation.
func System(now time.Time) string {
	out := strings.TrimSpace(systemRaw)
	return strings.ReplaceAll(out, "{current_date}", now.UTC().Format("Monday, 2 January 2006"))
}
