package server

import "github.com/jtejido/notecheck/report"

// ImageRequest carries an uploaded image. Image is base64 or a data URI; CBOR clients may
// send the raw bytes in Data instead.
type ImageRequest struct {
	Image string `json:"image" cbor:"image,omitempty"`
	Data  []byte `json:"-" cbor:"data,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id" cbor:"session_id"`
	State     string `json:"state" cbor:"state"`
	Width     int    `json:"width,omitempty" cbor:"width,omitempty"`
	Height    int    `json:"height,omitempty" cbor:"height,omitempty"`
}

type DetectResponse struct {
	SessionID    string         `json:"session_id,omitempty" cbor:"session_id,omitempty"`
	Label        string         `json:"label" cbor:"label"`
	Score        float64        `json:"score" cbor:"score"`
	Threshold    float64        `json:"threshold" cbor:"threshold"`
	Genuine      bool           `json:"is_genuine" cbor:"is_genuine"`
	Verdict      string         `json:"verdict" cbor:"verdict"`
	Message      string         `json:"message" cbor:"message"`
	HashDistance int            `json:"hash_distance" cbor:"hash_distance"`
	Degenerate   bool           `json:"degenerate,omitempty" cbor:"degenerate,omitempty"`
	Scores       []report.Score `json:"scores" cbor:"scores"`
	Elapsed      string         `json:"elapsed" cbor:"elapsed"`
}

type TemplateInfo struct {
	Label  string `json:"label" cbor:"label"`
	Width  int    `json:"width" cbor:"width"`
	Height int    `json:"height" cbor:"height"`
}

type ErrorResponse struct {
	Error string `json:"error" cbor:"error"`
}
