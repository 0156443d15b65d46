package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slambookhq/slambook/internal/middleware"
	"github.com/slambookhq/slambook/internal/services"
)

type slamResponse struct {
	Config    *services.SlamBookConfig `json:"config"`
	Answers   []services.SlamAnswer    `json:"answers"`
	Pages     []services.AnswerPage    `json:"pages"`
	ShareLink string                   `json:"share_link"`
}

// GET /api/slam — the owner's full document. An absent document is a
// legitimate state (the dashboard renders its "create" prompt), so it
// comes back 200 with a null config rather than an error.
func (h *Handler) handleGetSlam(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UIDFromContext(r.Context())
	data, err := h.slams.Fetch(uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := slamResponse{ShareLink: services.ShareLink(requestOrigin(r), uid)}
	if data != nil {
		resp.Config = data.Config
		resp.Answers = data.Answers
		resp.Pages = services.BuildAnswerPages(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// PUT /api/slam — wholesale config save. Collected answers are never
// touched by this path.
func (h *Handler) handleSaveSlam(w http.ResponseWriter, r *http.Request) {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var draft services.ConfigDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	cfg, err := h.slams.SaveConfig(c.UID, c.Email, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// GET /api/slam/suggested — the fixed suggested-question set plus the
// defaults a first-time author starts from.
func (h *Handler) handleSuggested(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"suggested": services.SuggestedQuestions,
		"draft":     services.NewDraft(),
	})
}

// GET /api/slam/{ownerKey}/form — public questionnaire view behind the
// share link. 404 is the terminal "doesn't exist" state.
func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	ownerKey := mux.Vars(r)["ownerKey"]
	form, err := h.slams.Form(ownerKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

type submitRequest struct {
	FriendName string            `json:"friend_name"`
	Answers    map[string]string `json:"answers"`
}

// POST /api/slam/{ownerKey}/answers — anonymous answer submission.
func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ownerKey := mux.Vars(r)["ownerKey"]
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	ans, err := h.slams.SubmitAnswer(ownerKey, req.FriendName, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "answer_id": ans.ID})
}

// requestOrigin reconstructs the externally visible origin for share
// links, preferring proxy-forwarded headers.
func requestOrigin(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}
