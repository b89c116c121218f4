package domain

import "time"

type MessageID int64

type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentImage ContentKind = "image"
	ContentFile  ContentKind = "file"
	ContentAudio ContentKind = "audio"
)

// DeliveryStatus only applies to direct rooms.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliverySeen      DeliveryStatus = "seen"
)

// Message is the canonical persisted record. ID and CreatedAt are
// assigned once by the persistence gateway and never change afterwards.
type Message struct {
	ID             MessageID
	Room           RoomKey
	Sender         Identity
	Content        string
	ContentKind    ContentKind
	MediaURL       string
	DeliveryStatus DeliveryStatus
	EditedAt       *time.Time
	Deleted        bool
	CreatedAt      time.Time
}
