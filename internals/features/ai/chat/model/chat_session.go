package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeChat      = "chat"
	ModeInterview = "interview"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	IsVoice   bool      `json:"is_voice"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSessionModel struct {
	ChatSessionID          uuid.UUID                        `gorm:"column:chat_session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"chat_session_id"`
	ChatSessionUserID      uuid.UUID                        `gorm:"column:chat_session_user_id;type:uuid;not null;index:idx_chat_session_user_mode,priority:1" json:"user_id"`
	ChatSessionMode        string                           `gorm:"column:chat_session_mode;size:20;not null;index:idx_chat_session_user_mode,priority:2" json:"mode"`
	ChatSessionMessages    datatypes.JSONSlice[ChatMessage] `gorm:"column:chat_session_messages;type:jsonb" json:"messages"`
	ChatSessionStartTime   time.Time                        `gorm:"column:chat_session_start_time;not null" json:"start_time"`
	ChatSessionLastUpdated time.Time                        `gorm:"column:chat_session_last_updated;not null" json:"last_updated"`
	DeletedAt              gorm.DeletedAt                   `gorm:"column:deleted_at;index" json:"-"`
}

func (ChatSessionModel) TableName() string {
	return "chat_sessions"
}

// Preview is the first user message, cut for list views.
func (s *ChatSessionModel) Preview() string {
	for _, m := range s.ChatSessionMessages {
		if m.IsUser {
			r := []rune(m.Text)
			if len(r) > 120 {
				return string(r[:120]) + "…"
			}
			return m.Text
		}
	}
	return ""
}
