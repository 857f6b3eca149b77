package models

import "gorm.io/gorm"

// MessageStatus tracks whether an admin has handled a contact message.
type MessageStatus string

const (
	MessageStatusUnread MessageStatus = "unread"
	MessageStatusRead   MessageStatus = "read"
)

// Message is one contact-form thread.
type Message struct {
	gorm.Model
	Name    string        `gorm:"size:255;not null"       json:"name"`
	Email   string        `gorm:"size:255;not null;index" json:"email"`
	Phone   string        `gorm:"size:50"                 json:"phone"`
	Subject string        `gorm:"size:255"                json:"subject"`
	Body    string        `gorm:"type:text;not null"      json:"body"`
	Status  MessageStatus `gorm:"size:20;not null;default:unread;index" json:"status"`

	Replies []Reply `gorm:"constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

// Reply belongs to exactly one Message.
type Reply struct {
	gorm.Model
	MessageID uint   `gorm:"not null;index"     json:"message_id"`
	Body      string `gorm:"type:text;not null" json:"body"`
	FromAdmin bool   `gorm:"not null"           json:"from_admin"`
}
