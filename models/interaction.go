package models

// LikeState is the derived like information for one (post, user) pair.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"likeCount"`
}

// SaveState is the derived saved flag for one (post, user) pair.
type SaveState struct {
	Saved bool `json:"saved"`
}

// AdminStats are the dashboard aggregates computed by the server.
type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalPosts     int64 `json:"totalPosts"`
	TotalComments  int64 `json:"totalComments"`
	TotalReports   int64 `json:"totalReports"`
	PendingReports int64 `json:"pendingReports"`
}
