package models

// Like records that a user likes a message
type Like struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_likes_user_message"`
	MessageID uint     `json:"message_id" gorm:"not null;uniqueIndex:idx_likes_user_message;index"`
	User      *User    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Message   *Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
