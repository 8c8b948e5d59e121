// Package ledger wire protocol types for the HTTP ledger API.
//
// These request/response shapes are shared between the resty client in this
// package and the gin simulator in internal/sim so the two sides can never
// drift apart. Binary fields ([]byte) ride as base64 strings per encoding/json
// defaults.
package ledger

// TokenResponse is returned by POST /token.
type TokenResponse struct {
	Token string `json:"token"`
	TTLMs int64  `json:"ttl_ms"`
}

// DryRunRequest is the body of POST /dryrun.
type DryRunRequest struct {
	Payload []byte `json:"payload"`
}

// SubmitRequest is the body of POST /submissions.
type SubmitRequest struct {
	Payload []byte `json:"payload"`
}

// SubmitResponse is returned by POST /submissions on admission (202) and on
// duplicate detection (409, where ReceiptID names the earlier submission).
type SubmitResponse struct {
	ReceiptID string `json:"receipt_id"`
}

// StatusRequest is the body of POST /receipts/status.
type StatusRequest struct {
	ReceiptIDs []string `json:"receipt_ids"`
	Durability string   `json:"durability"`
}

// WireReceiptStatus is one entry of StatusResponse.
type WireReceiptStatus struct {
	ReceiptID  string `json:"receipt_id"`
	Known      bool   `json:"known"`
	Failed     bool   `json:"failed"`
	Detail     string `json:"detail,omitempty"`
	Durability string `json:"durability"`
}

// StatusResponse is returned by POST /receipts/status, positionally aligned
// with the requested receipt IDs.
type StatusResponse struct {
	Statuses []WireReceiptStatus `json:"statuses"`
}

// ReadRequest is the body of POST /entries/read.
type ReadRequest struct {
	Keys []string `json:"keys"`
}

// ReadResponse is returned by POST /entries/read. Values are positionally
// aligned with the requested keys; absent keys carry null (a nil slice on
// the Go side).
type ReadResponse struct {
	Values [][]byte `json:"values"`
}

// ErrorResponse is the uniform error body for all non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
