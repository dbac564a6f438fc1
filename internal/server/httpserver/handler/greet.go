package handler

import (
	"net/http"
	"strings"
)

// handleGreet handles GET {prefix}/greet.
//
// An absent name falls back to the configured default, which is not
// validated. A supplied name must pass validateName. Either way the name
// is trimmed, and a blank result is rejected with 400.
func (h *Handler) handleGreet(w http.ResponseWriter, r *http.Request) {
	name := h.defaultName

	if values, ok := r.URL.Query()["name"]; ok {
		name = values[len(values)-1]
		if issue := validateName(name); issue != nil {
			h.writeJSON(w, r, http.StatusUnprocessableEntity, ValidationError{
				Error:  "Validation Error",
				Detail: []ValidationIssue{*issue},
			})
			return
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		h.writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid name parameter",
			Detail:    "The name can't be empty or contain only spaces",
			Timestamp: h.timestamp(),
		})
		return
	}

	h.recorder.RecordGreetRequest(name)

	h.writeJSON(w, r, http.StatusOK, GreetingResponse{
		Message:   "Hello, " + name + "!",
		Name:      name,
		Timestamp: h.timestamp(),
	})
}
