// Package audit enregistre les actions sensibles (commandes, commentaires,
// rôles). Un échec d'audit ne fait jamais échouer la requête.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"

	"plantopia_back_end/internal/database"
)

// Actions d'audit
const (
	ActionOrderCreate   = "order.create"
	ActionOrderStatus   = "order.status"
	ActionOrderPayment  = "order.payment"
	ActionOrderDelete   = "order.delete"
	ActionCommentDelete = "comment.delete"
	ActionRoleAssign    = "role.assign"
)

// Resources d'audit
const (
	ResourceOrder   = "order"
	ResourceComment = "comment"
	ResourceUser    = "user"
)

type Entry struct {
	Actor      string
	Action     string
	Resource   string
	ResourceID string
	Details    any
	Success    bool
	ErrorMsg   string
	Timestamp  time.Time
}

type Sink interface {
	Record(e Entry)
}

// ScyllaSink écrit dans la table audit_logs, de façon asynchrone.
type ScyllaSink struct {
	session *gocql.Session
}

func NewScyllaSink(session *gocql.Session) *ScyllaSink {
	return &ScyllaSink{session: session}
}

func (s *ScyllaSink) Record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	go func() {
		err := s.session.Query(database.InsertAuditLog,
			gocql.TimeUUID(), e.Actor, e.Action, e.Resource, e.ResourceID,
			details(e.Details), e.Success, e.ErrorMsg, e.Timestamp,
		).Exec()
		if err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogSink : repli quand ScyllaDB n'est pas configuré.
type LogSink struct{}

func (LogSink) Record(e Entry) {
	status := "✅"
	if !e.Success {
		status = "❌"
	}
	log.Printf("📝 audit %s %s %s/%s par %q %s %s", status, e.Action, e.Resource, e.ResourceID, e.Actor, details(e.Details), e.ErrorMsg)
}

func details(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
