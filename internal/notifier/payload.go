package notifier

import (
	"encoding/json"
	"strings"

	"github.com/julianstephens/curiosity/internal/constants"
)

// Payload is the resolved content of a push message
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// ParsePayload never fails. A JSON object contributes its string title, body
// and url fields; anything missing, empty or not a string takes the default.
// Any other JSON value yields the defaults, and input that is not JSON at all
// becomes the body.
func ParsePayload(raw []byte) Payload {
	p := Payload{
		Title: constants.DefaultNotificationTitle,
		Body:  constants.DefaultNotificationBody,
		URL:   constants.DefaultNotificationURL,
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		if text := strings.TrimSpace(string(raw)); text != "" {
			p.Body = text
		}
		return p
	}

	fields, ok := v.(map[string]any)
	if !ok {
		return p
	}
	if s, ok := fields["title"].(string); ok && s != "" {
		p.Title = s
	}
	if s, ok := fields["body"].(string); ok && s != "" {
		p.Body = s
	}
	if s, ok := fields["url"].(string); ok && s != "" {
		p.URL = s
	}
	return p
}
