package entity

import "time"

const (
	AccessStatusPending  = "pending"
	AccessStatusApproved = "approved"
	AccessStatusRejected = "rejected"

	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// DbAccessRequest is an application for an admin account awaiting review.
type DbAccessRequest struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Organization string     `gorm:"column:organization;type:varchar(255)" json:"organization"`
	Reason       string     `gorm:"column:reason;type:text;not null" json:"reason"`
	Status       string     `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	ReviewedBy   *uint      `gorm:"column:reviewed_by" json:"reviewedBy"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at" json:"reviewedAt"`
	ReviewNotes  *string    `gorm:"column:review_notes;type:text" json:"reviewNotes"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// TableName overrides the table name for DbAccessRequest.
func (DbAccessRequest) TableName() string {
	return "access_requests"
}

// IsPending checks if request is still awaiting review.
func (r *DbAccessRequest) IsPending() bool {
	return r != nil && r.Status == AccessStatusPending
}

// AccessReview is the terminal transition written by a reviewer.
type AccessReview struct {
	Status     string
	ReviewedBy uint
	ReviewedAt time.Time
	Notes      *string
}

type AccessRequestCreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Reason       string `json:"reason"`
}

type AccessRequestReviewRequest struct {
	RequestID    uint    `json:"requestId"`
	Action       string  `json:"action"`
	TempPassword string  `json:"tempPassword"`
	ReviewNotes  *string `json:"reviewNotes"`
}
