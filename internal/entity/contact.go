package entity

import "time"

// DbContactMessage stores a message sent through the public contact form.
type DbContactMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Subject   string    `gorm:"column:subject;type:varchar(255)" json:"subject"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for DbContactMessage.
func (DbContactMessage) TableName() string {
	return "contact_messages"
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
