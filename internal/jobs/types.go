package jobs

const (
	TaskRecordSearch = "history:record_search"
	QueueHistory     = "history"
)

type RecordSearchPayload struct {
	UserID string `json:"user_id"`
	Term   string `json:"term"`
}
