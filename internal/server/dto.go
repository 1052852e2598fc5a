package server

type pursuitDTO struct {
	ID         string         `json:"id"`
	Session    uint32         `json:"session"`
	Started    float64        `json:"started"`
	Ended      float64        `json:"ended"`
	Escalation float64        `json:"escalation"`
	MaxLevel   int            `json:"max_level"`
	Vehicles   map[string]int `json:"vehicles"`    // vehicles seen, by label
	RecordedAt string         `json:"recorded_at"` // RFC 3339, UTC
}

type healthDTO struct {
	Status      string `json:"status"`
	Connections int64  `json:"connections"`
	Journal     bool   `json:"journal"`
}
