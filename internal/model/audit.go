package model

// AuditRecord is an immutable, pre-rendered log entry describing one
// mutation. Written once per change, never updated or deleted.
type AuditRecord struct {
	Message   string `json:"message" bson:"message"`
	User      string `json:"user" bson:"user"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"` // epoch ms
}
