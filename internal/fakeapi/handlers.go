// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/model"
)

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		writeJSON(w, status, map[string]any{})
		return
	}
	writeJSON(w, status, map[string]any{"detail": detail})
}

// writeValidation mimics a request-model validation failure.
func writeValidation(w http.ResponseWriter, loc, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"loc":  []string{"body", loc},
			"msg":  msg,
			"type": "value_error",
		}},
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v) == nil
}

// =============================================================================
// USERS
// =============================================================================

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, &req) {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := normalizeEmail(req.Email)
	if at := strings.IndexByte(email, '@'); at < 1 || !strings.Contains(email[at:], ".") {
		writeValidation(w, "email", "value is not a valid email address")
		return
	}
	if len(req.Password) < 8 {
		writeValidation(w, "password", "String should have at least 8 characters")
		return
	}

	s.mu.Lock()
	u, err := s.addUserLocked(email, req.Password)
	s.mu.Unlock()
	if err == ErrEmailTaken {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id_user": u.id, "email": u.email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, &req) {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[normalizeEmail(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, exp, err := s.issueToken(u)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]any{"id_user": u.id, "email": u.email})
}

// =============================================================================
// MESSAGES
// =============================================================================

type contentBody struct {
	Content *string `json:"content"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.mu.Lock()
	msgs := append([]model.Message{}, s.messages[u.id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req contentBody
	if !decode(w, r, &req) || req.Content == nil {
		writeValidation(w, "content", "Field required")
		return
	}
	if strings.TrimSpace(*req.Content) == "" {
		writeDetail(w, http.StatusBadRequest, "Message content cannot be empty")
		return
	}

	u := currentUser(r)
	userMsg := model.Message{ID: newID(), Content: *req.Content, Timestamp: s.timestamp()}
	botMsg := model.Message{ID: newID(), Content: s.responder(*req.Content), IsBot: true, Timestamp: s.timestamp()}

	s.mu.Lock()
	s.messages[u.id] = append(s.messages[u.id], userMsg, botMsg)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"user_message": userMsg,
		"bot_response": botMsg,
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req contentBody
	if !decode(w, r, &req) || req.Content == nil {
		writeValidation(w, "content", "Field required")
		return
	}
	if strings.TrimSpace(*req.Content) == "" {
		writeDetail(w, http.StatusBadRequest, "Message content cannot be empty")
		return
	}

	u := currentUser(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[u.id]
	for i := range msgs {
		if msgs[i].ID != id {
			continue
		}
		if msgs[i].IsBot {
			writeDetail(w, http.StatusForbidden, "Bot messages cannot be edited")
			return
		}
		msgs[i].Content = *req.Content
		msgs[i].Timestamp = s.timestamp()
		writeJSON(w, http.StatusOK, map[string]any{
			"id_message": msgs[i].ID,
			"content":    msgs[i].Content,
			"timestamp":  msgs[i].Timestamp,
		})
		return
	}
	writeDetail(w, http.StatusNotFound, "Message not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[u.id]
	for i := range msgs {
		if msgs[i].ID == id {
			s.messages[u.id] = append(msgs[:i:i], msgs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"id_message": id, "status": "deleted"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Message not found")
}
