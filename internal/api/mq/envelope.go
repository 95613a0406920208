package mq

import "encoding/json"

// Request is the inbound message envelope. Pattern names the operation,
// ReplyTo the channel the caller awaits the response on; requests without a
// ReplyTo are fire-and-forget.
type Request struct {
	ID      string          `json:"id"`
	Pattern string          `json:"pattern"`
	Data    json.RawMessage `json:"data"`
	ReplyTo string          `json:"reply_to,omitempty"`
}

// ErrorBody is the caller-facing fault carried in a reply. It exposes a
// coarse code and message only; internal error detail never crosses the wire.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Response is the outbound reply envelope. Status carries an HTTP-style
// coarse code: 200 on success, the fault's status otherwise.
type Response struct {
	ID     string     `json:"id"`
	Status int        `json:"status"`
	Error  *ErrorBody `json:"error,omitempty"`
	Data   any        `json:"data,omitempty"`
}
