package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/service"
)

// TelecomHandler exposes SMS, voice and USSD actions.
type TelecomHandler struct {
	telecom *service.TelecomService
	metrics *metrics.Metrics
	errs    errorWriter
}

// NewTelecomHandler creates a new TelecomHandler.
func NewTelecomHandler(telecom *service.TelecomService, m *metrics.Metrics, errs errorWriter) *TelecomHandler {
	return &TelecomHandler{telecom: telecom, metrics: m, errs: errs}
}

// HandleSendSMS sends a text message and returns its log entry.
// POST /send-sms
// Request: {"recipient": "+256...", "message": "..."}
func (h *TelecomHandler) HandleSendSMS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recipient string `json:"recipient"`
		Message   string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	entry, err := h.telecom.SendSMS(r.Context(), req.Recipient, req.Message)
	h.count("sms", err)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleMakeCall connects two numbers and returns the call log entry.
// POST /make-call
// Request: {"caller": "+256...", "recipient": "+256..."}
func (h *TelecomHandler) HandleMakeCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		Recipient string `json:"recipient"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	call, err := h.telecom.PlaceCall(r.Context(), req.Caller, req.Recipient)
	h.count("call", err)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

// HandleStartUSSD opens a USSD session.
// POST /start-ussd
// Request: {"phone_number": "+256...", "ussd_code": "*384#"}
func (h *TelecomHandler) HandleStartUSSD(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phone_number"`
		USSDCode    string `json:"ussd_code"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	session, err := h.telecom.StartUSSD(r.Context(), req.PhoneNumber, req.USSDCode)
	h.count("ussd_start", err)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleUSSDResponse answers one step of a USSD dialogue. The gateway posts
// form fields (sessionId, phoneNumber, serviceCode, text) and expects a
// plain-text reply; JSON clients get {"response": "..."}.
// POST /ussd-response
func (h *TelecomHandler) HandleUSSDResponse(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.errs.write(w, r, errors.Join(domain.ErrInvalidInput, err))
			return
		}
		reply, err := h.telecom.RespondUSSD(r.Context(),
			r.PostForm.Get("sessionId"), r.PostForm.Get("phoneNumber"),
			r.PostForm.Get("serviceCode"), r.PostForm.Get("text"))
		h.count("ussd_response", err)
		if err != nil {
			h.errs.write(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(reply))
		return
	}

	var req struct {
		SessionID   string `json:"session_id"`
		PhoneNumber string `json:"phone_number"`
		USSDCode    string `json:"ussd_code"`
		UserInput   string `json:"user_input"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	reply, err := h.telecom.RespondUSSD(r.Context(), req.SessionID, req.PhoneNumber, req.USSDCode, req.UserInput)
	h.count("ussd_response", err)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (h *TelecomHandler) count(action string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrGateway):
		outcome = "gateway_error"
	case errors.Is(err, domain.ErrInvalidInput):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	h.metrics.Telecom(action, outcome)
}
