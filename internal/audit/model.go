package audit

import "time"

type Action string

const (
	ActionFarmerVerified     Action = "farmer_verified"
	ActionUserDeleted        Action = "user_deleted"
	ActionCropApproved       Action = "crop_approved"
	ActionCropDeleted        Action = "crop_deleted"
	ActionOrderStatusChanged Action = "order_status_changed"
)

// Entry is one privileged action taken through the dashboards.
type Entry struct {
	ID         int64
	ActorID    string
	ActorRole  string
	Action     Action
	TargetType string
	TargetID   string
	Detail     string
	CreatedAt  time.Time
}
