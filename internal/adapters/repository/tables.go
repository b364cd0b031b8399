package repository

// Tables holds the key layout of every table the service uses.
type Tables struct {
	Participants Table
	Assessments  Table
	AuditLog     Table
	Notes        Table
	OrgUnits     Table
}

// NewTables builds the table layout from the given table names.
func NewTables(participants, assessments, auditLog, notes, orgUnits string) Tables {
	return Tables{
		Participants: Table{Name: participants, PartitionKey: "userId"},
		Assessments:  Table{Name: assessments, PartitionKey: "participantId", SortKey: "dayAssessor"},
		AuditLog:     Table{Name: auditLog, PartitionKey: "participantId", SortKey: "entryKey"},
		Notes:        Table{Name: notes, PartitionKey: "participantId", SortKey: "entryKey"},
		OrgUnits:     Table{Name: orgUnits, PartitionKey: "vbuId"},
	}
}

// All returns every table, e.g. for index creation.
func (t Tables) All() []Table {
	return []Table{t.Participants, t.Assessments, t.AuditLog, t.Notes, t.OrgUnits}
}
