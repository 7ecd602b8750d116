package response

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxDetailLength = 300

var plainText = bluemonday.StrictPolicy()

// ErrorBody is the {"detail": "..."} shape; any other keys are field errors.
type ErrorBody struct {
	Detail string              `json:"detail"`
	Fields map[string][]string `json:"-"`
}

// PlainText strips markup from server-provided text before it is displayed.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

func ParseErrorBody(body []byte) (*ErrorBody, bool) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}

	out := &ErrorBody{Fields: map[string][]string{}}

	for key, value := range raw {
		if key == "detail" {
			out.Detail = fmt.Sprint(value)

			continue
		}

		switch v := value.(type) {
		case []any:
			for _, msg := range v {
				out.Fields[key] = append(out.Fields[key], fmt.Sprint(msg))
			}
		case string:
			out.Fields[key] = append(out.Fields[key], v)
		default:
			out.Fields[key] = append(out.Fields[key], fmt.Sprint(v))
		}
	}

	return out, true
}

// ErrorDetail turns a failed response body into one readable line per problem.
func ErrorDetail(statusCode int, body []byte) string {
	if parsed, ok := ParseErrorBody(body); ok {
		if parsed.Detail != "" {
			return truncate(PlainText(parsed.Detail))
		}

		if len(parsed.Fields) > 0 {
			keys := make([]string, 0, len(parsed.Fields))
			for k := range parsed.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			lines := make([]string, 0, len(keys))
			for _, k := range keys {
				lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(parsed.Fields[k], " ")))
			}

			return truncate(PlainText(strings.Join(lines, "\n")))
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}

	return truncate(PlainText(text))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailLength {
		return s
	}

	return string(r[:maxDetailLength]) + "…"
}
