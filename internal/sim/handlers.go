// Package sim HTTP handlers.
//
// Handlers translate between the wire shapes in internal/ledger and the
// state machine in state.go, mapping the typed ledger errors onto the HTTP
// statuses the engine's client classifies: 401 for expired tokens, 409 for
// duplicates, 422 for structural preflight violations. Anything else the
// engine treats as transport-level, which is exactly right for a malformed
// request body or an internal failure.
package sim

import (
	"errors"
	"net/http"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
	"github.com/gin-gonic/gin"
)

// handleToken issues a fresh authorization token.
func (s *Server) handleToken(c *gin.Context) {
	token, ttl, err := s.ledger.IssueToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ledger.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Debug("Issued token %s (ttl %v)", logging.FormatTokenID(token), ttl)
	c.JSON(http.StatusOK, ledger.TokenResponse{
		Token: token,
		TTLMs: ttl.Milliseconds(),
	})
}

// handleDryRun measures a payload without admitting it.
func (s *Server) handleDryRun(c *gin.Context) {
	var req ledger.DryRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ledger.ErrorResponse{Error: "invalid request body"})
		return
	}

	report, err := s.ledger.DryRun(req.Payload)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ledger.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleSubmit admits a payload for asynchronous execution.
func (s *Server) handleSubmit(c *gin.Context) {
	var req ledger.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ledger.ErrorResponse{Error: "invalid request body"})
		return
	}

	receipt, err := s.ledger.Submit(req.Payload)
	switch {
	case errors.Is(err, ledger.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, ledger.ErrorResponse{Error: "authorization token expired"})
	case errors.Is(err, ledger.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, ledger.ErrorResponse{Error: "duplicate submission"})
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, ledger.ErrorResponse{Error: err.Error()})
	default:
		logging.Debug("Admitted submission %s", logging.FormatReceiptID(string(receipt)))
		c.JSON(http.StatusAccepted, ledger.SubmitResponse{ReceiptID: string(receipt)})
	}
}

// handleStatus reports durability for a set of receipts.
func (s *Server) handleStatus(c *gin.Context) {
	var req ledger.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ledger.ErrorResponse{Error: "invalid request body"})
		return
	}

	// The requested level does not change per-receipt truth, but an unknown
	// level means the poller would wait forever, so reject it up front.
	requested, err := ledger.ParseDurabilityLevel(req.Durability)
	if err != nil {
		c.JSON(http.StatusBadRequest, ledger.ErrorResponse{Error: err.Error()})
		return
	}
	logging.Debug("Status poll for %d receipts at durability %q", len(req.ReceiptIDs), requested)

	statuses := s.ledger.Status(req.ReceiptIDs)
	wire := make([]ledger.WireReceiptStatus, len(statuses))
	for i, status := range statuses {
		wire[i] = ledger.WireReceiptStatus{
			ReceiptID:  string(status.Receipt),
			Known:      status.Known,
			Failed:     status.Failed,
			Detail:     status.Detail,
			Durability: status.Durability.String(),
		}
	}

	c.JSON(http.StatusOK, ledger.StatusResponse{Statuses: wire})
}

// handleRead returns entry values for content-addressed keys.
func (s *Server) handleRead(c *gin.Context) {
	var req ledger.ReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ledger.ErrorResponse{Error: "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, ledger.ReadResponse{Values: s.ledger.Read(req.Keys)})
}

// handleExpireTokens invalidates all outstanding tokens. Demo and test hook
// for exercising the expired-token submission path on demand.
func (s *Server) handleExpireTokens(c *gin.Context) {
	s.ledger.ExpireAllTokens()
	logging.Warn("All outstanding tokens expired by admin request")
	c.Status(http.StatusNoContent)
}
