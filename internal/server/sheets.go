package server

import (
	"net/http"

	"github.com/rgehrsitz/lensquote/internal/datasource"
)

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// handleSheets proxies one sheet so the sheet ID and API key stay on the server
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if s.Upstream == nil {
		s.log().Errorf("sheet proxy: sheet ID or API key not configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	sheetName := r.URL.Query().Get("sheetName")
	if sheetName == "" {
		sheetName = datasource.SheetPrices
	}

	env, err := s.Upstream.Fetch(r.Context(), sheetName)
	if err != nil {
		s.log().Errorf("sheet proxy: fetch %s: %v", sheetName, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch data from Google Sheets",
			Details: err.Error(),
		})
		return
	}

	env.Success = true
	env.SheetName = sheetName
	writeJSON(w, http.StatusOK, env)
}
