package domain

import "time"

// ChatThread and ChatMessage are read-only shapes from the external chat
// store. The sweep scans them for the unread-message nudge; this core never
// writes chat data.
type ChatThread struct {
	ID        int32 `json:"id"`
	BookingID int32 `json:"booking_id"`
	RenterID  int32 `json:"renter_id"`
	OwnerID   int32 `json:"owner_id"`
}

type ChatMessage struct {
	ID       int32     `json:"id"`
	ThreadID int32     `json:"thread_id"`
	Sender   Recipient `json:"sender"`
	Body     string    `json:"body"`
	Seen     bool      `json:"seen"`
	SentOn   time.Time `json:"sent_on"`
}
