package models

// DecodeRequest carries a raw packet for ad-hoc inspection.
type DecodeRequest struct {
	// Packet is the base64-encoded message bytes.
	Packet string `json:"packet" binding:"required"`
}

// DecodeHeader mirrors the six fixed header fields.
type DecodeHeader struct {
	ID      uint16 `json:"id"`
	Flags   uint16 `json:"flags"`
	QDCount uint16 `json:"qdcount"`
	ANCount uint16 `json:"ancount"`
	NSCount uint16 `json:"nscount"`
	ARCount uint16 `json:"arcount"`
}

// DecodeResponse is the structural decode outcome for a submitted packet.
type DecodeResponse struct {
	OK     bool         `json:"ok"`
	Status string       `json:"status"`
	Length int          `json:"length"`
	Header DecodeHeader `json:"header"`
}
