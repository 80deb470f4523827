package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MessageStatusNew     = "new"
	MessageStatusRead    = "read"
	MessageStatusReplied = "replied"
	MessageStatusClosed  = "closed"
)

// Message covers both public contact-form submissions (guest fields set,
// SenderID nil) and authenticated inquiries. Replies are separate Message
// rows linked back through metadata.replyTo.
type Message struct {
	gorm.Model
	SenderID    *uint  `json:"senderID" gorm:"index"`
	Sender      *User  `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	GuestName   string `json:"guestName"`
	GuestEmail  string `json:"guestEmail"`
	RecipientID uint   `json:"recipientID" gorm:"not null;index"`
	Subject     string `json:"subject" gorm:"size:256"`
	Body        string `json:"body" gorm:"type:text"`
	Type        string `json:"type" gorm:"type:varchar(32);default:'general';index"` // general, property_inquiry, agent_contact, support
	Priority    string `json:"priority" gorm:"type:varchar(16);default:'normal';index"`
	Status      string `json:"status" gorm:"type:varchar(16);default:'new';index"`

	IsRead bool       `json:"isRead" gorm:"default:false;index"`
	ReadAt *time.Time `json:"readAt"`

	Metadata datatypes.JSON `json:"metadata"` // source, ip, userAgent, replyTo
}

func (m *Message) MarshalJSON() ([]byte, error) {
	type Alias Message
	aux := &struct {
		Metadata map[string]interface{} `json:"metadata"`
		*Alias
	}{
		Metadata: map[string]interface{}{},
		Alias:    (*Alias)(m),
	}

	if m.Metadata != nil {
		var meta map[string]interface{}
		if err := json.Unmarshal(m.Metadata, &meta); err == nil {
			aux.Metadata = meta
		}
	}

	return json.Marshal(aux)
}
