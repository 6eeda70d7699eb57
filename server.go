package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"i4.energy/across/smspdu/modem"
	"i4.energy/across/smspdu/pdu"
)

// SMSSender submits encoded messages to a modem. *modem.Sender implements it.
type SMSSender interface {
	Send(ctx context.Context, msgs ...pdu.Message) error
}

// SMSRequest is the payload accepted over HTTP and MQTT.
type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Server handles incoming HTTP requests for interacting with the
// configured modem
type Server struct {
	Logger *slog.Logger
	Sender SMSSender
	// Token, when set, must be presented as a Bearer token on /sms
	Token string
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sms", s.handleSMS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.Token == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.Token
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleSMS processes incoming HTTP POST requests to send SMS messages
func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req SMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.To == "" || req.Message == "" {
		s.sendError(w, "both 'to' and 'message' fields are required", http.StatusBadRequest)
		return
	}

	parts, err := deliver(r.Context(), s.Sender, req)
	if err != nil {
		s.Logger.Error("Failed to send SMS", "error", err, "to", req.To)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}

	s.Logger.Info("SMS sent successfully", "to", req.To, "message_length", len(req.Message), "parts", parts)

	type SMSResponse struct {
		Parts int `json:"parts"`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SMSResponse{Parts: parts})
}

// deliver encodes req and hands every part to sender in one send.
func deliver(ctx context.Context, sender SMSSender, req SMSRequest) (int, error) {
	msgs, err := pdu.Encode(req.To, req.Message)
	if err != nil {
		return 0, err
	}
	if err := sender.Send(ctx, msgs...); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

func statusFor(err error) int {
	switch {
	case pdu.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, modem.ErrModem):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
