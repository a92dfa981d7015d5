package domain

// AlertRecord is one logged keyword alert. Immutable once created.
type AlertRecord struct {
	ID        int64
	Sender    string
	Keyword   string
	Timestamp string // second-resolution local time, "2006-01-02 15:04:05"
}

// AlertTimestampLayout is the storage format for alert timestamps.
const AlertTimestampLayout = "2006-01-02 15:04:05"
