package model

import (
	"errors"
	"fmt"
)

type StatusType string

const (
	StatusNotStarted StatusType = "not_started"
	StatusInProgress StatusType = "in_progress"
	StatusStuck      StatusType = "stuck"
	StatusDone       StatusType = "done"
	StatusWaitingFor StatusType = "waiting_for"
)

var statusLabels = map[StatusType]string{
	StatusNotStarted: "Not started",
	StatusInProgress: "In progress",
	StatusStuck:      "Stuck",
	StatusDone:       "Done",
	StatusWaitingFor: "Waiting for",
}

// StatusTypes lists every status in display order.
func StatusTypes() []StatusType {
	return []StatusType{
		StatusNotStarted,
		StatusInProgress,
		StatusStuck,
		StatusDone,
		StatusWaitingFor,
	}
}

func (t StatusType) Label() string {
	if l, ok := statusLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t StatusType) Valid() bool {
	_, ok := statusLabels[t]
	return ok
}

func ParseStatusType(s string) (StatusType, error) {
	t := StatusType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return t, nil
}

// TaskStatus pairs a status type with the party being waited on, which is
// required when (and only meaningful when) the type is waiting_for.
type TaskStatus struct {
	Type       StatusType `json:"type"`
	WaitingFor *string    `json:"waiting_for,omitempty"`
}

func DefaultTaskStatus() TaskStatus {
	return TaskStatus{Type: StatusNotStarted}
}

func (s TaskStatus) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("unknown status %q", string(s.Type))
	}
	if s.Type == StatusWaitingFor && (s.WaitingFor == nil || *s.WaitingFor == "") {
		return errors.New("waiting_for status requires who is being waited for")
	}
	return nil
}

// Label renders the status for display, folding in the waited-on party.
func (s TaskStatus) Label() string {
	if s.Type == StatusWaitingFor && s.WaitingFor != nil && *s.WaitingFor != "" {
		return "Waiting for " + *s.WaitingFor
	}
	return s.Type.Label()
}
