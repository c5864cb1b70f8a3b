package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"circuitdesk/internal/circuit"
	"circuitdesk/internal/logging"
	mw "circuitdesk/internal/web/middleware"
	"circuitdesk/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// handleIndex serves the page shell. Visitors without a live session get
// the login form; everyone else gets the partial for the requested view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var body templ.Component

	sess, authed := s.sessionFromCookie(r)
	if !authed {
		body = templates.LoginForm("")
	} else {
		switch circuit.ParseView(r.URL.Query().Get("view")) {
		case circuit.ViewRegister:
			body = templates.RegisterForm(circuit.Record{}, nil)
		default:
			// The details view is only reachable through a lookup,
			// so a direct page load starts at search.
			body = templates.SearchView("")
		}
		logging.FromContext(r.Context()).Debug("page view",
			"username", sess.Username,
			"view", r.URL.Query().Get("view"),
		)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(body).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error", "error", err)
	}
}

// handleLogin checks the credential pair and issues a session.
// Browser clients get a session cookie and the search view; API clients
// get the session object as JSON.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentials(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess, err := s.gate.Login(username, password)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnauthorized)
		return
	}

	logging.FromContext(r.Context()).Info("login", "username", sess.Username, "role", sess.Role)

	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if isHTMX(r) {
		s.renderPartial(w, r, templates.SearchView(""))
		return
	}
	writeJSON(w, sess)
}

// handleLogout invalidates the current session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := mw.SessionFromContext(r.Context()); ok {
		s.gate.Logout(sess.Token)
		logging.FromContext(r.Context()).Info("logout", "username", sess.Username)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   mw.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if isHTMX(r) {
		s.renderPartial(w, r, templates.LoginForm(""))
		return
	}
	writeJSON(w, map[string]string{"status": "logged out"})
}

// handleSearch looks up a circuit from the search form's query parameter.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	circuitID := r.URL.Query().Get("circuit_id")
	if circuitID == "" {
		// An empty search just re-renders the form for HTMX clients.
		if isHTMX(r) {
			s.renderPartial(w, r, templates.SearchView(""))
			return
		}
		s.respondError(w, r, fmt.Errorf("circuit %q not found", circuitID), http.StatusNotFound)
		return
	}

	rec, err := s.store.Lookup(r.Context(), circuitID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if isHTMX(r) {
		s.renderPartial(w, r, templates.RecordDetails(rec))
		return
	}
	writeJSON(w, rec)
}

// handleLookup returns a single circuit by ID.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	circuitID := chi.URLParam(r, "circuitID")

	rec, err := s.store.Lookup(r.Context(), circuitID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if isHTMX(r) {
		s.renderPartial(w, r, templates.RecordDetails(rec))
		return
	}
	writeJSON(w, rec)
}

// handleEditForm renders the edit form for a circuit, pre-filled with the
// current record. The circuit ID stays read-only.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	circuitID := chi.URLParam(r, "circuitID")

	rec, err := s.store.Lookup(r.Context(), circuitID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	s.renderPartial(w, r, templates.EditForm(rec, nil))
}

// handleRegister validates and inserts a new circuit record.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	rec, err := parseRecord(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	created, err := s.store.Register(r.Context(), rec)
	if err != nil {
		var errs circuit.ValidationErrors
		if asValidationErrors(err, &errs) {
			s.respondValidationErrors(w, r, errs, func() error {
				return templates.RegisterForm(rec, errs).Render(r.Context(), w)
			})
			return
		}
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("circuit registered", "circuit_id", created.CircuitID)

	if isHTMX(r) {
		s.renderPartial(w, r, templates.SuccessNotice(
			fmt.Sprintf("Circuit %s registered", created.CircuitID)))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// handleUpdate applies edits to an existing circuit record.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	circuitID := chi.URLParam(r, "circuitID")

	fields, err := parseFields(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	updated, err := s.store.Update(r.Context(), circuitID, fields)
	if err != nil {
		var errs circuit.ValidationErrors
		if asValidationErrors(err, &errs) {
			// Re-render the form with the submitted values so the user
			// can correct them in place.
			draft := circuit.Record{CircuitID: circuitID}
			for _, f := range circuit.EditableFields {
				if v, ok := fields[f]; ok {
					draft.SetField(f, v)
				}
			}
			s.respondValidationErrors(w, r, errs, func() error {
				return templates.EditForm(draft, errs).Render(r.Context(), w)
			})
			return
		}
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("circuit updated", "circuit_id", updated.CircuitID)

	if isHTMX(r) {
		s.renderPartial(w, r, templates.SuccessNotice(
			fmt.Sprintf("Circuit %s updated", updated.CircuitID)))
		return
	}
	writeJSON(w, updated)
}

// renderPartial writes an HTML fragment response.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error", "error", err)
	}
}

// sessionFromCookie resolves the session cookie without rejecting the
// request; the page shell uses it to pick login vs. app view.
func (s *Server) sessionFromCookie(r *http.Request) (circuit.Session, bool) {
	c, err := r.Cookie(mw.SessionCookie)
	if err != nil {
		return circuit.Session{}, false
	}
	sess, err := s.gate.Verify(c.Value)
	if err != nil {
		return circuit.Session{}, false
	}
	return sess, true
}

// parseCredentials reads the username/password pair from a JSON body or
// form submission.
func parseCredentials(r *http.Request) (username, password string, err error) {
	if wantsJSONBody(r) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return "", "", fmt.Errorf("invalid login payload: %w", err)
		}
		return creds.Username, creds.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("invalid login form: %w", err)
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}

// parseRecord reads a full circuit record from a JSON body or form
// submission. last_updated is ignored; the store stamps it.
func parseRecord(r *http.Request) (circuit.Record, error) {
	if wantsJSONBody(r) {
		var rec circuit.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			return circuit.Record{}, fmt.Errorf("invalid record payload: %w", err)
		}
		rec.LastUpdated = ""
		return rec, nil
	}

	if err := r.ParseForm(); err != nil {
		return circuit.Record{}, fmt.Errorf("invalid record form: %w", err)
	}
	var rec circuit.Record
	for _, f := range circuit.AllFields {
		rec.SetField(f, r.PostFormValue(f))
	}
	return rec, nil
}

// parseFields reads a partial field map for the edit path. Form
// submissions carry every editable field; JSON clients may send a subset.
func parseFields(r *http.Request) (map[string]string, error) {
	if wantsJSONBody(r) {
		fields := make(map[string]string)
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return nil, fmt.Errorf("invalid update payload: %w", err)
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid update form: %w", err)
	}
	fields := make(map[string]string)
	for _, f := range circuit.EditableFields {
		if vals, ok := r.PostForm[f]; ok && len(vals) > 0 {
			fields[f] = vals[0]
		}
	}
	return fields, nil
}

// wantsJSONBody reports whether the request body is JSON rather than a
// form submission.
func wantsJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// statusForError picks an HTTP status from the mapped error code.
func statusForError(err error) int {
	switch circuit.MapError(err).Code {
	case "CIR001":
		return http.StatusNotFound
	case "CIR002":
		return http.StatusConflict
	case "CIR003", "CIR004", "CIR005":
		return http.StatusBadRequest
	case "AUTH001", "AUTH002":
		return http.StatusUnauthorized
	case "REQ001", "REQ002":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// asValidationErrors unwraps err into a ValidationErrors map.
func asValidationErrors(err error, target *circuit.ValidationErrors) bool {
	if errs, ok := err.(circuit.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}

