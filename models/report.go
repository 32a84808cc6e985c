package models

import "time"

// ReportStatus tracks a report through review.
type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportReviewed  ReportStatus = "REVIEWED"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

var reportStatusLabels = map[ReportStatus]string{
	ReportPending:   "Pending",
	ReportReviewed:  "Reviewed",
	ReportResolved:  "Resolved",
	ReportDismissed: "Dismissed",
}

// Normalize maps unknown statuses to PENDING.
func (s ReportStatus) Normalize() ReportStatus {
	if _, ok := reportStatusLabels[s]; ok {
		return s
	}
	return ReportPending
}

// Label is the badge text for the status.
func (s ReportStatus) Label() string {
	return reportStatusLabels[s.Normalize()]
}

// Report is a user-submitted flag against a post or a comment.
type Report struct {
	ID         int64        `json:"id"`
	ReporterID int64        `json:"reporterId"`
	Reporter   *User        `json:"reporter,omitempty"`
	PostID     *int64       `json:"postId,omitempty"`
	CommentID  *int64       `json:"commentId,omitempty"`
	Reason     string       `json:"reason"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}
