package dto

import "time"

// StageStatus reports the member's current reputation tier and progress toward
// the next one. Progress is a clamped percentage; the top tier pins it at 100
// with no next stage.
type StageStatus struct {
	MemberStage  string `json:"member_stage"`
	NextStage    string `json:"next_stage,omitempty"`
	StagePoints  int    `json:"stage_points"`
	TargetPoints int    `json:"target_points,omitempty"`
	Progress     int    `json:"progress"`
}

type StagePointEntry struct {
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
