package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/telecom"
)

const maxUSSDDoctors = 5

// Gateway is the outbound side of the telecom provider.
type Gateway interface {
	SendSMS(ctx context.Context, to, message string) (telecom.SMSResult, error)
	Call(ctx context.Context, from, to string) (telecom.CallResult, error)
}

// TelecomService sends messages and calls through the gateway, keeps a log
// of each attempt, and answers USSD dialogues.
type TelecomService struct {
	gateway       Gateway
	smsLogs       domain.Repository[domain.SMSLog]
	calls         domain.Repository[domain.VoiceCall]
	sessions      domain.USSDSessionRepository
	doctors       domain.Repository[domain.Doctor]
	supportNumber string
}

// NewTelecomService creates a TelecomService.
func NewTelecomService(
	gateway Gateway,
	smsLogs domain.Repository[domain.SMSLog],
	calls domain.Repository[domain.VoiceCall],
	sessions domain.USSDSessionRepository,
	doctors domain.Repository[domain.Doctor],
	supportNumber string,
) *TelecomService {
	return &TelecomService{
		gateway:       gateway,
		smsLogs:       smsLogs,
		calls:         calls,
		sessions:      sessions,
		doctors:       doctors,
		supportNumber: supportNumber,
	}
}

// SendSMS sends message to phoneNumber and records the attempt. The log is
// returned alongside any gateway error.
func (s *TelecomService) SendSMS(ctx context.Context, phoneNumber, message string) (*domain.SMSLog, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: phone_number and message are required", domain.ErrInvalidInput)
	}

	result, sendErr := s.gateway.SendSMS(ctx, phoneNumber, message)
	status := result.Status
	if status == "" {
		status = "Sent"
		if sendErr != nil {
			status = "Failed"
		}
	}

	entry := &domain.SMSLog{PhoneNumber: phoneNumber, Message: message, Status: status}
	if err := s.smsLogs.Create(ctx, entry); err != nil {
		return nil, errors.Join(sendErr, fmt.Errorf("record sms: %w", err))
	}
	return entry, sendErr
}

// PlaceCall connects callerNumber to receiverNumber and records the attempt.
// The log is returned alongside any gateway error.
func (s *TelecomService) PlaceCall(ctx context.Context, callerNumber, receiverNumber string) (*domain.VoiceCall, error) {
	callerNumber = strings.TrimSpace(callerNumber)
	receiverNumber = strings.TrimSpace(receiverNumber)
	if callerNumber == "" || receiverNumber == "" {
		return nil, fmt.Errorf("%w: caller and recipient are required", domain.ErrInvalidInput)
	}

	result, callErr := s.gateway.Call(ctx, callerNumber, receiverNumber)

	call := &domain.VoiceCall{
		CallID:         result.SessionID,
		CallerNumber:   callerNumber,
		ReceiverNumber: receiverNumber,
		CallStatus:     domain.CallQueued,
	}
	if call.CallID == "" || call.CallID == "None" {
		call.CallID = "lw-" + uuid.NewString()
	}
	if callErr != nil {
		call.CallStatus = domain.CallFailed
		call.FailureReason = callErr.Error()
	}

	if err := s.calls.Create(ctx, call); err != nil {
		return nil, errors.Join(callErr, fmt.Errorf("record call: %w", err))
	}
	return call, callErr
}

// StartUSSD opens a new active session for phoneNumber.
func (s *TelecomService) StartUSSD(ctx context.Context, phoneNumber, serviceCode string) (*domain.USSDSession, error) {
	session := &domain.USSDSession{
		SessionID:   uuid.NewString(),
		PhoneNumber: strings.TrimSpace(phoneNumber),
		ServiceCode: serviceCode,
		Status:      domain.USSDActive,
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create ussd session: %w", err)
	}
	return session, nil
}

// RespondUSSD advances a dialogue. text is the '*'-joined input so far, as
// the gateway sends it. Unknown session ids open a new session. The reply
// starts with "CON" while input is expected and "END" once the dialogue is
// over.
func (s *TelecomService) RespondUSSD(ctx context.Context, sessionID, phoneNumber, serviceCode, text string) (string, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(phoneNumber) == "" {
		return "", fmt.Errorf("%w: session_id and phone_number are required", domain.ErrInvalidInput)
	}

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		session = &domain.USSDSession{
			SessionID:   sessionID,
			PhoneNumber: phoneNumber,
			ServiceCode: serviceCode,
			Status:      domain.USSDActive,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return "", fmt.Errorf("create ussd session: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("get ussd session: %w", err)
	case session.Status != domain.USSDActive:
		return "", fmt.Errorf("%w: ussd session %s has ended", domain.ErrInvalidInput, sessionID)
	}

	reply, err := s.ussdMenu(ctx, text)
	if err != nil {
		return "", err
	}

	session.SessionData = text
	if strings.HasPrefix(reply, "END") {
		session.Status = domain.USSDCompleted
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return "", fmt.Errorf("update ussd session: %w", err)
	}
	return reply, nil
}

func (s *TelecomService) ussdMenu(ctx context.Context, text string) (string, error) {
	switch strings.TrimSpace(text) {
	case "":
		return "CON Welcome to LiveWell\n1. Find a doctor\n2. Contact support", nil
	case "1":
		doctors, err := s.doctors.List(ctx)
		if err != nil {
			return "", fmt.Errorf("list doctors: %w", err)
		}
		if len(doctors) == 0 {
			return "END No doctors are listed yet.", nil
		}
		var b strings.Builder
		b.WriteString("END Our doctors:")
		for i, d := range doctors[:min(len(doctors), maxUSSDDoctors)] {
			fmt.Fprintf(&b, "\n%d. %s", i+1, d.Name)
			if d.Specialty != "" {
				fmt.Fprintf(&b, " (%s)", d.Specialty)
			}
		}
		return b.String(), nil
	case "2":
		if s.supportNumber == "" {
			return "END Support is not available right now.", nil
		}
		return "END Call LiveWell support on " + s.supportNumber, nil
	}
	return "END Invalid choice.", nil
}
