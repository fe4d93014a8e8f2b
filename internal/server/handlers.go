package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/donhauser001/dhs-atlas/internal/tools"
)

type chatRequest struct {
	Message   string         `json:"message"`
	UserID    string         `json:"userId,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	History   []any          `json:"history,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"agent":       "dhs-atlas",
		"llm_url":     s.cfg.LLMBaseURL,
		"model":       s.cfg.LLMModel,
		"tools_count": s.agent.Registry().Len(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	response, err := s.agent.Chat(r.Context(), req.Message, req.SessionID)
	if err != nil {
		s.logger.Error("chat failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	for event := range s.agent.ChatStream(r.Context(), req.Message, req.SessionID) {
		var data map[string]any
		switch event.Type {
		case "start", "done":
			data = map[string]any{"session_id": event.SessionID}
		case "content":
			data = map[string]any{"content": event.Content}
		case "error":
			s.logger.Error("stream failed", "error", event.Err)
			data = map[string]any{"error": event.Err.Error()}
		}
		writeSSE(w, event.Type, data)
		flusher.Flush()
	}
}

// writeSSE frames one named server-sent event.
func writeSSE(w http.ResponseWriter, eventType string, data map[string]any) {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	s.agent.ClearSession(sessionID)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": fmt.Sprintf("会话 %s 已清除", sessionID),
	})
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = parsed
		}
	}

	clients, err := s.clients.Search(r.Context(),
		r.URL.Query().Get("keyword"),
		r.URL.Query().Get("category"),
		limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := make([]map[string]any, 0, len(clients))
	for i := range clients {
		data = append(data, clients[i].ToMap())
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data, "total": len(data)})
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	client, err := s.clients.FindByName(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "客户不存在: "+name)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": client.ToMap()})
}

func (s *Server) handleClientQuotation(w http.ResponseWriter, r *http.Request) {
	clientName := r.PathValue("client_name")

	result := s.agent.Registry().Execute(r.Context(), tools.ToolCall{
		Name:   "query_client_quotation",
		Params: map[string]any{"client_name": clientName},
	})
	if !result.OK {
		writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	if data, ok := result.Data.(map[string]any); ok {
		if message, ok := data["message"].(string); ok && message != "" {
			writeError(w, http.StatusNotFound, message)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": result.Data})
}
