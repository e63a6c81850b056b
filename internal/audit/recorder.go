package audit

import (
	"context"
	"encoding/json"
	"time"

	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
)

// Recorder writes lifecycle events for the compliance trail. Recording is
// best-effort: failures are logged and swallowed, never surfaced to the
// operator path.
type Recorder struct {
	store store.Store
	log   logger.Logger
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(s store.Store, log logger.Logger) *Recorder {
	return &Recorder{store: s, log: log}
}

// Record persists one event. Payload values must be JSON-encodable.
func (r *Recorder) Record(ctx context.Context, actor auth.Identity, subjectKind, subjectID, action string, payload map[string]any) {
	body := ""
	if len(payload) > 0 {
		if encoded, err := json.Marshal(payload); err == nil {
			body = string(encoded)
		}
	}

	event := &model.AuditEvent{
		StoreID:     actor.TenantID,
		SubjectID:   subjectID,
		SubjectKind: subjectKind,
		ActorUserID: actor.UserID,
		ActorRole:   string(actor.EffectiveRole),
		Action:      action,
		Payload:     body,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.store.InsertAuditEvent(ctx, event); err != nil {
		r.log.Warn("audit event write failed", "action", action, "subject", subjectID, "error", err)
	}
}
