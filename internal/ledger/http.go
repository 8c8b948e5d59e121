// Package ledger HTTP client implementation.
//
// This file implements the complete HTTP client layer for communicating with
// a ledger service exposing the Relay submission API. It handles all aspects
// of API communication including request/response serialization, typed error
// classification, connection retry logic, and structured logging for reliable
// submission operations.
//
// API CLIENT ARCHITECTURE:
// The HTTPClient wraps the Resty HTTP client with ledger-specific functionality:
//   - Connection Management: Timeout configuration and retry policies
//   - Request/Response Handling: JSON serialization and structured logging
//   - Error Classification: HTTP status codes mapped to the typed taxonomy in
//     errors.go so the engine never sees raw statuses
//
// Connection-level retries here cover only dial/transport failures; rejection
// handling and round-level retries belong to the engine, not this client.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/crestline-dev/relay/internal/logging"
	"github.com/go-resty/resty/v2"
)

// restyLogger routes Resty's internal logging through structured logging.
type restyLogger struct{}

// Errorf routes error messages through structured logging.
func (restyLogger) Errorf(format string, v ...interface{}) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (restyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (restyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug(format, v...)
}

// HTTPClient wraps the Resty HTTP client with ledger-specific functionality
// for reliable service communication. Implements the full Service interface
// against the HTTP API served by relaysim or a compatible production gateway.
type HTTPClient struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPClient creates a new ledger API client with comprehensive Resty
// configuration. Configures timeout handling, connection retry logic,
// structured logging integration, and proper headers.
//
// Connection retries use a fixed wait and only fire on transport errors, never
// on HTTP rejections: a rejection carries classification information the
// engine needs, so it must surface exactly once.
func NewHTTPClient(apiAddr string, timeout time.Duration) *HTTPClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", apiAddr)

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(restyLogger{})

	client.
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "relay/0.1")

	// Retry only on connection errors, not HTTP errors
	client.
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(1 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	// Custom request logging using structured logging
	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Ledger API request: %s %s", req.Method, req.URL)
		return nil
	})

	// Custom response logging using structured logging
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Ledger API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("Ledger API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &HTTPClient{
		client:  client,
		baseURL: baseURL,
	}
}

// FetchToken requests a fresh authorization token from the service. The
// engine's signer owns the bounded retry loop around this call; a single
// transport failure here surfaces as one TransportError.
func (api *HTTPClient) FetchToken(ctx context.Context) (AuthorizationToken, error) {
	var response TokenResponse

	resp, err := api.client.R().
		SetContext(ctx).
		SetResult(&response).
		Post("/token")

	if err != nil {
		return AuthorizationToken{}, &TransportError{
			Detail: fmt.Sprintf("token fetch against %s: %v", api.baseURL, err),
		}
	}

	if resp.StatusCode() != 200 {
		return AuthorizationToken{}, &TransportError{
			Detail: fmt.Sprintf("token fetch returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	logging.Debug("Fetched authorization token %s (ttl %dms)",
		logging.FormatTokenID(response.Token), response.TTLMs)

	return AuthorizationToken{
		Value:     response.Token,
		FetchedAt: time.Now(),
	}, nil
}

// DryRun submits a trial batch for cost measurement without admission.
// A 422 response is a structural preflight rejection; anything else non-200
// is a transport-level failure the estimator may retry.
func (api *HTTPClient) DryRun(ctx context.Context, batch SignedBatch) (DryRunReport, error) {
	var response DryRunReport
	var errBody ErrorResponse

	resp, err := api.client.R().
		SetContext(ctx).
		SetBody(DryRunRequest{Payload: batch.Payload}).
		SetResult(&response).
		SetError(&errBody).
		Post("/dryrun")

	if err != nil {
		return DryRunReport{}, &TransportError{
			Detail: fmt.Sprintf("dry run against %s: %v", api.baseURL, err),
		}
	}

	switch resp.StatusCode() {
	case 200:
		return response, nil
	case 422:
		return DryRunReport{}, &PreflightError{Detail: errBody.Error}
	default:
		return DryRunReport{}, &TransportError{
			Detail: fmt.Sprintf("dry run returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
}

// Submit sends a signed batch for asynchronous execution and classifies the
// service's answer into the typed taxonomy: 202 accepted, 401 token expired,
// 409 duplicate, 422 preflight rejection, anything else transport.
func (api *HTTPClient) Submit(ctx context.Context, batch SignedBatch) (ReceiptID, error) {
	var response SubmitResponse
	var errBody ErrorResponse

	resp, err := api.client.R().
		SetContext(ctx).
		SetBody(SubmitRequest{Payload: batch.Payload}).
		SetResult(&response).
		SetError(&errBody).
		Post("/submissions")

	if err != nil {
		return "", &TransportError{
			Detail: fmt.Sprintf("submit against %s: %v", api.baseURL, err),
		}
	}

	switch resp.StatusCode() {
	case 202:
		return ReceiptID(response.ReceiptID), nil
	case 401:
		return "", fmt.Errorf("submit %s: %w", logging.FormatReceiptID(string(batch.Receipt)), ErrTokenExpired)
	case 409:
		return "", fmt.Errorf("submit %s: %w", logging.FormatReceiptID(string(batch.Receipt)), ErrDuplicateSubmission)
	case 422:
		return "", &PreflightError{Detail: errBody.Error}
	default:
		return "", &TransportError{
			Detail: fmt.Sprintf("submit returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
}

// PollStatus queries durability status for a group of receipts. The caller
// (the confirmation poller) bounds the group size and handles concurrency.
func (api *HTTPClient) PollStatus(ctx context.Context, receipts []ReceiptID, required DurabilityLevel) ([]ReceiptStatus, error) {
	ids := make([]string, len(receipts))
	for i, r := range receipts {
		ids[i] = string(r)
	}

	var response StatusResponse

	resp, err := api.client.R().
		SetContext(ctx).
		SetBody(StatusRequest{ReceiptIDs: ids, Durability: required.String()}).
		SetResult(&response).
		Post("/receipts/status")

	if err != nil {
		return nil, &TransportError{
			Detail: fmt.Sprintf("status poll against %s: %v", api.baseURL, err),
		}
	}

	if resp.StatusCode() != 200 {
		return nil, &TransportError{
			Detail: fmt.Sprintf("status poll returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	statuses := make([]ReceiptStatus, 0, len(response.Statuses))
	for _, ws := range response.Statuses {
		level, perr := ParseDurabilityLevel(ws.Durability)
		if perr != nil {
			return nil, &TransportError{
				Detail: fmt.Sprintf("status poll returned %v for receipt %s", perr, ws.ReceiptID),
			}
		}
		statuses = append(statuses, ReceiptStatus{
			Receipt:    ReceiptID(ws.ReceiptID),
			Known:      ws.Known,
			Failed:     ws.Failed,
			Detail:     ws.Detail,
			Durability: level,
		})
	}

	return statuses, nil
}

// ReadMany fetches ledger entries by key, returning a positionally aligned
// slice with nil entries for absent keys.
func (api *HTTPClient) ReadMany(ctx context.Context, keys []string) ([][]byte, error) {
	var response ReadResponse

	resp, err := api.client.R().
		SetContext(ctx).
		SetBody(ReadRequest{Keys: keys}).
		SetResult(&response).
		Post("/entries/read")

	if err != nil {
		return nil, &TransportError{
			Detail: fmt.Sprintf("entry read against %s: %v", api.baseURL, err),
		}
	}

	if resp.StatusCode() != 200 {
		return nil, &TransportError{
			Detail: fmt.Sprintf("entry read returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	if len(response.Values) != len(keys) {
		return nil, &TransportError{
			Detail: fmt.Sprintf("entry read returned %d values for %d keys", len(response.Values), len(keys)),
		}
	}

	return response.Values, nil
}
