package status

import (
	"errors"
	"time"
)

const (
	DefaultState      = "Offline"
	DefaultQueueState = "N/A"
)

var ErrEmptyServiceName = errors.New("service name empty")

// Status is the last reported state of one named service.
type Status struct {
	ID          string    `json:"id,omitempty"`
	ServiceName string    `json:"service"`
	State       string    `json:"state"`
	QueueState  string    `json:"queue_state,omitempty"`
	Note        string    `json:"note"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Update is a staff submitted change for one service. An empty QueueState keeps
// the stored queue state.
type Update struct {
	ServiceName string
	State       string
	QueueState  string
	Note        string
}

type BoardResponse struct {
	Statuses []*Status `json:"statuses"`
	Total    int       `json:"total"`
}
