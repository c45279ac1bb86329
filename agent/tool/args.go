package tool

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// parseArguments decodes the raw JSON arguments produced by the model. The
// model is an untrusted, occasionally malformed caller: on parse failure the
// policy is to fall back to empty arguments and let the handler's own
// validation decide, rather than rejecting the call outright.
func parseArguments(tool, raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}

	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		log.Debug().
			Str("tool", tool).
			Str("raw_arguments", raw).
			Err(err).
			Msg("tool arguments unparseable, falling back to empty arguments")
		return map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

func intArg(args map[string]any, key string) int64 {
	return int64(floatArg(args, key))
}

// timeArg accepts the date formats the model tends to produce.
func timeArg(args map[string]any, key string) (time.Time, bool) {
	raw := stringArg(args, key)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
