package api

import (
	"net/http"

	"github.com/slambookhq/slambook/internal/middleware"
)

// GET /api/export/book.pdf — the whole book, one page per answer in
// submission order.
func (h *Handler) handleExportBook(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UIDFromContext(r.Context())
	res, err := h.exports.ExportBook(uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+res.FileName)
	_, _ = w.Write(res.Data)
}

// GET /api/export/page.pdf?answer_id=... — one answer's page.
func (h *Handler) handleExportPage(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UIDFromContext(r.Context())
	answerID := r.URL.Query().Get("answer_id")
	if answerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "answer_id required"})
		return
	}
	res, err := h.exports.ExportPage(uid, answerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+res.FileName)
	_, _ = w.Write(res.Data)
}

// GET /api/export/answers.csv — long-format CSV of every answer.
func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UIDFromContext(r.Context())
	b, err := h.exports.ExportCSV(uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=answers.csv")
	_, _ = w.Write(b)
}
