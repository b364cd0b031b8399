package service

import (
	"context"

	"github.com/okian/mindset-tracker/internal/domain/model"
)

// AuditLog returns a participant's audit entries newest first, or every
// entry newest first when participantID is empty.
func (s *Service) AuditLog(ctx context.Context, participantID string) ([]model.AuditEntry, error) {
	participantID = model.NormalizeParticipantID(participantID)
	var (
		es  []model.AuditEntry
		err error
	)
	if participantID == "" {
		es, err = s.auditLog.ListAll(ctx)
	} else {
		es, err = s.auditLog.ListByParticipant(ctx, participantID)
	}
	if err != nil {
		return nil, storage("list audit log", err)
	}
	return es, nil
}
