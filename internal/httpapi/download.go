package httpapi

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitbook/internal/export"
	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/middleware"
	"github.com/mmynk/splitbook/internal/models"
)

type downloadHandler struct {
	ledger *ledger.Service
	logger *slog.Logger
}

// currentUser serves the authenticated user's balance sheet as CSV.
func (h *downloadHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sheet, err := h.ledger.GetUserBalanceSheet(r.Context(), userID)
	if err != nil {
		writeLedgerError(h.logger, w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBalanceSheet(&buf, sheet); err != nil {
		writeLedgerError(h.logger, w, err)
		return
	}
	writeCSV(w, export.UserFilename(userID), buf.Bytes())
}

// overall serves every user's balance sheet as one CSV.
func (h *downloadHandler) overall(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.ledger.GetOverallBalanceSheet(r.Context())
	if err != nil {
		writeLedgerError(h.logger, w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBalanceSheets(&buf, sheets); err != nil {
		writeLedgerError(h.logger, w, err)
		return
	}
	writeCSV(w, export.OverallFilename, buf.Bytes())
	h.logger.Debug("Overall balance sheet exported", "users", len(sheets), "rows", countRows(sheets))
}

// writeCSV sends body as an attachment. The CSV is rendered into a buffer
// first so a failure can still produce a proper error status.
func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func countRows(sheets []models.BalanceSheet) int {
	n := 0
	for _, s := range sheets {
		n += len(s.Details)
	}
	return n
}
