package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/ai/chat/model"
	"englishku_backend/internals/features/ai/chat/repository"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/helpers/dbtime"
	"englishku_backend/internals/helpers/llm"
)

var (
	ErrDisabled    = errors.New("ai chat is not configured")
	ErrUnknownMode = errors.New("mode must be chat or interview")
	ErrEmptyText   = errors.New("message is empty")
)

// historyWindow bounds the turns sent to the model.
const historyWindow = 20

type Rewarder interface {
	GrantLabel(ctx context.Context, userID uuid.UUID, label string) (*xp.GrantResult, error)
}

type Service struct {
	Sessions repository.Repository
	LLM      *llm.Client
	Rewards  Rewarder
	Clock    dbtime.Clock
}

func NewService(sessions repository.Repository, client *llm.Client, rewards Rewarder) *Service {
	return &Service{Sessions: sessions, LLM: client, Rewards: rewards, Clock: dbtime.SystemClock}
}

type SendInput struct {
	SessionID uuid.UUID
	Mode      string
	Text      string
	IsVoice   bool
}

type SendResult struct {
	SessionID uuid.UUID         `json:"session_id"`
	Reply     model.ChatMessage `json:"reply"`
	User      model.ChatMessage `json:"message"`
	XP        *xp.GrantResult   `json:"xp,omitempty"`
}

func validMode(mode string) bool {
	return mode == model.ModeChat || mode == model.ModeInterview
}

// StartSession opens a session seeded with the mode's greeting.
func (s *Service) StartSession(ctx context.Context, userID uuid.UUID, mode string) (*model.ChatSessionModel, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	if !validMode(mode) {
		return nil, ErrUnknownMode
	}
	now := s.Clock()
	sess := &model.ChatSessionModel{
		ChatSessionID:          uuid.New(),
		ChatSessionUserID:      userID,
		ChatSessionMode:        mode,
		ChatSessionStartTime:   now,
		ChatSessionLastUpdated: now,
		ChatSessionMessages: []model.ChatMessage{{
			ID: uuid.NewString(), Text: greeting(mode), Timestamp: now,
		}},
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Send stores the user's turn, asks the model with the stored history and
// stores the reply. Without a session id a new session is started.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, in SendInput) (*SendResult, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if s.LLM == nil || s.LLM.Provider == nil {
		return nil, ErrDisabled
	}

	var sess *model.ChatSessionModel
	var err error
	if in.SessionID == uuid.Nil {
		sess, err = s.StartSession(ctx, userID, in.Mode)
	} else {
		sess, err = s.Sessions.Get(ctx, userID, in.SessionID)
	}
	if err != nil {
		return nil, err
	}

	userMsg := model.ChatMessage{ID: uuid.NewString(), Text: text, IsUser: true, IsVoice: in.IsVoice, Timestamp: s.Clock()}
	req := llm.Request{
		System:      systemPrompt(sess.ChatSessionMode),
		Messages:    toLLM(append(sess.ChatSessionMessages, userMsg)),
		MaxTokens:   600,
		Temperature: 0.7,
	}
	callCtx := ctx
	if s.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.LLM.Timeout)
		defer cancel()
	}
	resp, err := s.LLM.Provider.Generate(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("chat reply: %w", err)
	}

	reply := model.ChatMessage{ID: uuid.NewString(), Text: strings.TrimSpace(resp.Text()), Timestamp: s.Clock()}
	if _, err := s.Sessions.Append(ctx, userID, sess.ChatSessionID, reply.Timestamp, userMsg, reply); err != nil {
		return nil, err
	}

	out := &SendResult{SessionID: sess.ChatSessionID, Reply: reply, User: userMsg}
	if s.Rewards != nil {
		label := constants.XPLabelChat
		if sess.ChatSessionMode == model.ModeInterview {
			label = constants.XPLabelInterview
		}
		g, err := s.Rewards.GrantLabel(ctx, userID, label)
		if err != nil {
			log.Printf("[ERROR] %s xp user=%s: %v", label, userID, err)
		}
		out.XP = g
	}
	return out, nil
}

// toLLM keeps the last historyWindow messages.
func toLLM(msgs []model.ChatMessage) []llm.Message {
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleAssistant
		if m.IsUser {
			role = llm.RoleUser
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}

type SessionSummary struct {
	SessionID     uuid.UUID `json:"session_id"`
	Mode          string    `json:"mode"`
	Preview       string    `json:"preview"`
	MessagesCount int       `json:"messages_count"`
	StartTime     time.Time `json:"start_time"`
	LastUpdated   time.Time `json:"last_updated"`
}

// List returns one page of session summaries and the total count.
func (s *Service) List(ctx context.Context, userID uuid.UUID, mode string, offset, limit int) ([]SessionSummary, int64, error) {
	if mode != "" && !validMode(mode) {
		return nil, 0, ErrUnknownMode
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.Sessions.List(ctx, userID, mode, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SessionSummary, 0, len(rows))
	for i := range rows {
		out = append(out, SessionSummary{
			SessionID:     rows[i].ChatSessionID,
			Mode:          rows[i].ChatSessionMode,
			Preview:       rows[i].Preview(),
			MessagesCount: len(rows[i].ChatSessionMessages),
			StartTime:     rows[i].ChatSessionStartTime,
			LastUpdated:   rows[i].ChatSessionLastUpdated,
		})
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSessionModel, error) {
	return s.Sessions.Get(ctx, userID, sessionID)
}

func (s *Service) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.Sessions.Delete(ctx, userID, sessionID)
}
