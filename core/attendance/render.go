package attendance

import (
	"context"
	"strings"
)

// Mode selects how a list view is rendered.
type Mode string

const (
	// ModeList is the overview list: icon toggles and a status badge.
	ModeList Mode = "list"
	// ModeAttendance is the attendance-taking list: labelled toggles and a note action.
	ModeAttendance Mode = "attendance"
)

type ActionKind string

const (
	ActionStatus ActionKind = "status"
	ActionNote   ActionKind = "note"
)

type (
	// ActionFunc is bound to a single rendered row. Bindings are rebuilt on every render.
	ActionFunc func(ctx context.Context) error

	// Binder creates the actions bound to a row.
	Binder interface {
		StatusAction(id int, st Status) ActionFunc
		NoteAction(id int) ActionFunc
	}

	Action struct {
		Kind   ActionKind `json:"kind"`
		Status Status     `json:"status,omitempty"`
		Label  string     `json:"label"`
		Active bool       `json:"active"`
		Class  string     `json:"class"`
		Handle ActionFunc `json:"-"`
	}

	RowDescriptor struct {
		ID         int      `json:"id"`
		Name       string   `json:"name"`
		Section    string   `json:"section"`
		Time       string   `json:"time"`
		Status     Status   `json:"status"`
		Badge      string   `json:"badge"`
		Note       string   `json:"note"`
		HasNote    bool     `json:"hasNote"`
		Actions    []Action `json:"actions"`
		NoteAction *Action  `json:"noteAction,omitempty"`
	}
)

var (
	statusColor = map[Status]string{
		StatusPresent: "bg-green-100 text-green-800",
		StatusAbsent:  "bg-red-100 text-red-800",
		StatusLate:    "bg-yellow-100 text-yellow-800",
	}
	statusIcon = map[Status]string{
		StatusPresent: "ri-check-line text-green-600",
		StatusAbsent:  "ri-close-line text-red-600",
		StatusLate:    "ri-time-line text-yellow-600",
	}
	inactiveIcon   = "ri-checkbox-blank-circle-line text-gray-300"
	inactiveButton = "bg-gray-50 text-gray-500"
	noteIcon       = "ri-chat-1-line text-gray-500"
)

// Label is the capitalised status, as shown on buttons.
func (st Status) Label() string {
	s := string(st)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Render turns a view into row descriptors, each carrying three mutually exclusive status actions
// and, in ModeAttendance, a note action. A nil binder renders rows without handlers.
func Render(view []StudentRecord, mode Mode, binder Binder) []RowDescriptor {
	rows := make([]RowDescriptor, 0, len(view))
	for _, rec := range view {
		row := RowDescriptor{
			ID:      rec.ID,
			Name:    rec.Name,
			Section: rec.Section,
			Time:    rec.Time,
			Status:  rec.Status,
			Badge:   statusColor[rec.Status],
			Note:    rec.Note.String,
			HasNote: rec.Note.Valid,
			Actions: make([]Action, 0, len(AllStatuses)),
		}

		for _, st := range AllStatuses {
			act := Action{
				Kind:   ActionStatus,
				Status: st,
				Label:  st.Label(),
				Active: rec.Status == st,
			}
			switch {
			case mode == ModeAttendance && act.Active:
				act.Class = statusColor[st]
			case mode == ModeAttendance:
				act.Class = inactiveButton
			case act.Active:
				act.Class = statusIcon[st]
			default:
				act.Class = inactiveIcon
			}
			if binder != nil {
				act.Handle = binder.StatusAction(rec.ID, st)
			}
			row.Actions = append(row.Actions, act)
		}

		if mode == ModeAttendance {
			act := &Action{Kind: ActionNote, Label: "Note", Active: rec.Note.Valid, Class: noteIcon}
			if binder != nil {
				act.Handle = binder.NoteAction(rec.ID)
			}
			row.NoteAction = act
		}
		rows = append(rows, row)
	}
	return rows
}
