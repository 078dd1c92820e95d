package web

import (
	"encoding/json"
	"log"
	"net/http"

	"balancegame-web/models"
)

type sessionResponse struct {
	LoggedIn bool        `json:"loggedIn"`
	User     models.User `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *WebHandler) APISession(w http.ResponseWriter, r *http.Request) {
	rs := h.openSession(r)
	_ = rs.save(w, r)
	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: rs.store.IsLoggedIn(),
		User:     rs.store.User(),
	})
}

// APIUpdateUser merges a JSON object into the session user. When an
// upstream API is configured and the user has an id, the profile is
// updated there first and the API's answer is what gets merged.
func (h *WebHandler) APIUpdateUser(w http.ResponseWriter, r *http.Request) {
	var partial models.User
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil || partial == nil {
		writeError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	rs := h.openSession(r)

	if rs.api != nil && rs.store.IsLoggedIn() {
		if id, ok := rs.store.User().ID(); ok {
			updated, err := rs.api.UpdateProfile(r.Context(), id, partial)
			if err != nil {
				log.Printf("Upstream profile update failed for user %s: %v", id, err)
				writeError(w, http.StatusBadGateway, "Failed to update profile")
				return
			}
			partial = updated
		}
	}

	if err := rs.store.UpdateUser(partial); err != nil {
		log.Printf("Failed to persist user update: %v", err)
	}
	if err := rs.save(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: rs.store.IsLoggedIn(),
		User:     rs.store.User(),
	})
}

func (h *WebHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if h.api != nil {
		resp["upstream"] = "ok"
		if err := h.api.Ping(r.Context()); err != nil {
			resp["upstream"] = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *WebHandler) APIRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Routes())
}
