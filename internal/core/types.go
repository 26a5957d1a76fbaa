package core

import (
	"errors"
	"time"
)

const (
	AppName      = "Telmii"
	AppUserAgent = "Telmii-Core/0.1"
	AppVersion   = "0.1.0"
)

var (
	ErrInvalidKey      = errors.New("companion key has no user id")
	ErrUnknownProvider = errors.New("unknown llm provider")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CoerceRole maps anything outside the three known roles to RoleUser.
func CoerceRole(r Role) Role {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return r
	default:
		return RoleUser
	}
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompanionKey scopes every memory read and write to one companion, model and user.
type CompanionKey struct {
	CompanionName string `json:"companionName"`
	ModelName     string `json:"modelName"`
	UserID        string `json:"userId"`
}

func (k CompanionKey) Valid() bool {
	return k.UserID != ""
}

type HistoryEntry struct {
	Text  string
	Score float64
}

type MemoryMetadata struct {
	FileName  string    `json:"fileName"`
	UserID    string    `json:"userId"`
	ModelName string    `json:"modelName"`
	Timestamp time.Time `json:"timestamp"`
}

type MemoryDocument struct {
	ID          string         `json:"id"`
	PageContent string         `json:"pageContent"`
	Metadata    MemoryMetadata `json:"metadata"`
	Score       float32        `json:"score"`
}

// Companion is the persona record a chat turn runs against.
type Companion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Seed         string `json:"seed"`
	Instructions string `json:"instructions"`
}
