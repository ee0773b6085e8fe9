package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// StorageMode tells where the authoritative copy of a project lives.
// A project only ever moves MEMORY_ONLY -> PERSISTENT, never back.
type StorageMode string

const (
	StorageModeMemory     StorageMode = "MEMORY_ONLY"
	StorageModePersistent StorageMode = "PERSISTENT"
)

// StageOutputs is the bag of pipeline stage results attached to a project.
// Each payload is an opaque JSON document; a stage that has not completed
// yet is nil. Field names follow the caller-facing wire contract.
type StageOutputs struct {
	Idea       json.RawMessage `json:"ideaOutput,omitempty"`
	Research   json.RawMessage `json:"researchOutput,omitempty"`
	Blueprint  json.RawMessage `json:"blueprintOutput,omitempty"`
	Financial  json.RawMessage `json:"financialOutput,omitempty"`
	Pitch      json.RawMessage `json:"pitchOutput,omitempty"`
	GoToMarket json.RawMessage `json:"goToMarketOutput,omitempty"`
}

var jsonNull = []byte("null")

// present reports whether a raw payload carries an actual value.
// An explicit JSON null counts as absent.
func present(m json.RawMessage) bool {
	return len(m) > 0 && !bytes.Equal(bytes.TrimSpace(m), jsonNull)
}

// Empty reports whether no stage carries a payload.
func (s StageOutputs) Empty() bool {
	return !present(s.Idea) &&
		!present(s.Research) &&
		!present(s.Blueprint) &&
		!present(s.Financial) &&
		!present(s.Pitch) &&
		!present(s.GoToMarket)
}

// SessionProject is the transient, per-user working copy of a project.
// It lives in redis under a TTL and is visible only to its owner.
type SessionProject struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Name           string       `json:"name"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	Stages         StageOutputs `json:"stages"`
}

// Project is the durable record of a project.
type Project struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	StorageMode StorageMode  `json:"storage_mode"`
	Stages      StageOutputs `json:"stages"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProjectView is the caller-facing shape returned by the read path.
// updatedAt carries the session record's last-accessed time.
type ProjectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	StageOutputs
}

// View maps a session record to its caller-facing shape.
func (sp *SessionProject) View() *ProjectView {
	return &ProjectView{
		ID:           sp.ID,
		Name:         sp.Name,
		UserID:       sp.UserID,
		CreatedAt:    sp.CreatedAt,
		UpdatedAt:    sp.LastAccessedAt,
		StageOutputs: sp.Stages,
	}
}

// UpgradedView is the caller-facing shape returned by the upgrade path.
type UpgradedView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	StorageMode StorageMode `json:"storageMode"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// UpgradedView maps a durable record to the upgrade response shape.
func (p *Project) UpgradedView() *UpgradedView {
	return &UpgradedView{
		ID:          p.ID,
		Name:        p.Name,
		StorageMode: p.StorageMode,
		UpdatedAt:   p.UpdatedAt,
	}
}
