package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/session"
)

type sessionResponse struct {
	ID       string       `json:"id"`
	Identity string       `json:"identity"`
	Quote    domain.Quote `json:"quote"`
}

type commandsRequest struct {
	Commands []string `json:"commands"`
}

type catalogResponse struct {
	Manufacturers []catalogEntry       `json:"manufacturers"`
	FittingTypes  []domain.FittingType `json:"fittingTypes"`
	SupplyModes   []domain.SupplyMode  `json:"supplyModes"`
	FeeMethods    []domain.FeeMethod   `json:"feeMethods"`
	Commands      []string             `json:"commands"`
}

type catalogEntry struct {
	Name   string   `json:"name"`
	Brands []string `json:"brands"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{ID: sess.ID, Identity: sess.Identity(), Quote: sess.Quote()}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	email := requestEmail(r)
	sess := s.Sessions.Create()

	if err := sess.SignIn(email, requestAllowed(r)); err != nil {
		s.Sessions.Delete(sess.ID)
		writeError(w, http.StatusForbidden, "not on the allow-list")
		return
	}

	if s.Loader != nil {
		if err := sess.LoadFrom(r.Context(), s.Loader); err != nil {
			s.log().Errorf("session %s: %v", sess.ID, err)
			s.Sessions.Delete(sess.ID)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "failed to load pricing tables", Details: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// lookupSession finds the session named in the URL and checks that it belongs to
// the caller. Sessions of other operators are reported as missing.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.Sessions.Get(chi.URLParam(r, "id"))
	if !ok || sess.Identity() != requestEmail(r) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.Sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req commandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmds, err := s.Registry.ParseCommandSpecs(req.Commands)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := sess.ExecuteAll(cmds); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			errorBody
			Quote domain.Quote `json:"quote"`
		}{errorBody{Error: err.Error()}, sess.Quote()})
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	resp := catalogResponse{
		Manufacturers: []catalogEntry{},
		FittingTypes:  domain.FittingTypes,
		SupplyModes:   domain.SupplyModes,
		FeeMethods:    domain.FeeMethods,
		Commands:      s.Registry.List(),
	}
	if tables := sess.Tables(); tables.Loaded() {
		for _, m := range tables.Prices.Manufacturers() {
			resp.Manufacturers = append(resp.Manufacturers, catalogEntry{Name: m, Brands: tables.Prices.Brands(m)})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
