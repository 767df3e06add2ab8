package realtime

// Message is the envelope written to every listener.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}
