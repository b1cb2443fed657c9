package handlers

import (
	"encoding/json"
	"net/http"
)

// AskRequest is a natural-language question for the sales assistant
type AskRequest struct {
	Question string `json:"question"`
}

func (r *Router) askAssistant(w http.ResponseWriter, req *http.Request) {
	if r.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "Assistant not configured (set GEMINI_API_KEY)")
		return
	}

	var askReq AskRequest
	if err := json.NewDecoder(req.Body).Decode(&askReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	answer, err := r.assistant.Ask(req.Context(), askReq.Question)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, answer)
}
