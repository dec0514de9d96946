package bot

import "fmt"

// NotFoundError reports that the notification a dialogue or callback refers
// to no longer exists. It is recoverable: the boundary answers with a gentle
// notice instead of escalating.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("notification %d not found", e.ID)
	}
	return "no notification bound to this conversation"
}

// Code feeds the router's err_code log field.
func (e *NotFoundError) Code() string { return "notification_not_found" }
