package entity

import "time"

// Size is the width/height pair returned by every ideal size node.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SizeRequest struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Fields returns the request as node input fields. A zero multiplier is left out so the
// node default applies.
func (r SizeRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"width":  r.Width,
		"height": r.Height,
	}
	if r.Multiplier > 0 {
		fields["multiplier"] = r.Multiplier
	}
	return fields
}

// Invocation is a single evaluated node call as kept in the history.
type Invocation struct {
	ID        string                 `json:"id"`
	NodeType  string                 `json:"node_type"`
	Inputs    map[string]interface{} `json:"inputs"`
	Result    Size                   `json:"result"`
	Cached    bool                   `json:"cached"`
	CreatedAt time.Time              `json:"created_at"`
}

type InvocationEvent struct {
	InvocationID string    `json:"invocation_id"`
	NodeType     string    `json:"node_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Timestamp    time.Time `json:"timestamp"`
}

// SizeTask is a queued request consumed by the processor binary.
type SizeTask struct {
	ID       string                 `json:"id"`
	NodeType string                 `json:"node_type"`
	Fields   map[string]interface{} `json:"fields"`
}

type InvocationListResponse struct {
	Invocations []Invocation `json:"invocations"`
	Count       int          `json:"count"`
}
