package domain

import "strings"

// LogRecord is one access-log line reduced to the fields the report needs.
type LogRecord struct {
	IP                 string `json:"ip"`
	Method             string `json:"method"`
	URL                string `json:"url"`
	Status             string `json:"status"`
	ResponseTimeMicros int64  `json:"response_time"`
}

// KeySeparator joins the components of a composite key.
const KeySeparator = " "

// RequestKey returns the "ip method url" grouping key.
func (r LogRecord) RequestKey() string {
	return strings.Join([]string{r.IP, r.Method, r.URL}, KeySeparator)
}

// StatusKey returns the "ip method url status" grouping key.
func (r LogRecord) StatusKey() string {
	return r.RequestKey() + KeySeparator + r.Status
}

// IsClientError reports whether the status belongs to the 4xx family.
func (r LogRecord) IsClientError() bool {
	return strings.HasPrefix(r.Status, "4")
}

// IsServerError reports whether the status belongs to the 5xx family.
func (r LogRecord) IsServerError() bool {
	return strings.HasPrefix(r.Status, "5")
}
