package models

import "time"

// Message is a short post owned by exactly one user.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"size:140;not null;check:chk_messages_text,text <> ''"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;autoCreateTime;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// CreateMessageRequest defines the request body for posting a new message
type CreateMessageRequest struct {
	Text string `json:"text" form:"text" validate:"required,max=140"`
}
