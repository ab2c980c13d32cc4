package workflow

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"pothole-service/internal/model"
)

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrTerminalState     = errors.New("report is resolved")
)

type Action string

const (
	ActionNotifyAuthorities Action = "NOTIFY_AUTHORITIES"
	ActionAssignDrone       Action = "ASSIGN_DRONE"
	ActionDispatchDrone     Action = "DISPATCH_DRONE"
	ActionInspectionDone    Action = "INSPECTION_DONE"
	ActionScheduleRepair    Action = "SCHEDULE_REPAIR"
	ActionRepairDone        Action = "REPAIR_DONE"
)

// ParseAction normalizes a client-supplied action name ("notify-authorities",
// "ASSIGN_DRONE", ...) to the closed action set.
func ParseAction(s string) (Action, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	a := Action(normalized)
	if _, ok := transitions[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

// AuditTag is the action name as recorded in the report's audit trail.
func (a Action) AuditTag() string {
	return strings.ToLower(string(a))
}

// rule is one row of the transition table. Empty fromStatus means any
// non-terminal status; empty fromDrone means any drone state. Zero toStatus
// or toDrone leaves the field unchanged.
type rule struct {
	fromStatus []model.ReportStatus
	fromDrone  []model.DroneStatus
	toStatus   model.ReportStatus
	toDrone    model.DroneStatus
	events     []model.NotificationEvent
}

func (ru rule) matches(status model.ReportStatus, drone model.DroneStatus) bool {
	if len(ru.fromStatus) > 0 && !slices.Contains(ru.fromStatus, status) {
		return false
	}
	if len(ru.fromDrone) > 0 && !slices.Contains(ru.fromDrone, drone) {
		return false
	}
	return true
}

// transitions is the full workflow graph. An action with several rows applies
// the first row whose guards match. Re-notifying a REPORTED report is legal
// and stays in REPORTED; the drone channel moves NONE → ASSIGNED →
// IN_PROGRESS → COMPLETE and never backwards.
var transitions = map[Action][]rule{
	ActionNotifyAuthorities: {
		{
			fromStatus: []model.ReportStatus{model.ReportStatusPending, model.ReportStatusReported},
			toStatus:   model.ReportStatusReported,
			events:     []model.NotificationEvent{model.NotificationEventAuthorityAlert},
		},
	},
	ActionAssignDrone: {
		{
			fromStatus: []model.ReportStatus{model.ReportStatusPending},
			fromDrone:  []model.DroneStatus{model.DroneStatusNone},
			toDrone:    model.DroneStatusAssigned,
			events:     []model.NotificationEvent{model.NotificationEventDroneAssigned},
		},
	},
	ActionDispatchDrone: {
		{
			fromDrone: []model.DroneStatus{model.DroneStatusAssigned},
			toDrone:   model.DroneStatusInProgress,
		},
	},
	ActionInspectionDone: {
		{
			fromStatus: []model.ReportStatus{model.ReportStatusReported},
			toStatus:   model.ReportStatusInspected,
		},
		// A drone mid-flight can complete the inspection before anyone
		// reported the pothole upstream.
		{
			fromStatus: []model.ReportStatus{model.ReportStatusPending},
			fromDrone:  []model.DroneStatus{model.DroneStatusInProgress},
			toStatus:   model.ReportStatusInspected,
		},
	},
	ActionScheduleRepair: {
		{
			fromStatus: []model.ReportStatus{model.ReportStatusInspected},
			toStatus:   model.ReportStatusInProgress,
		},
	},
	ActionRepairDone: {
		{
			fromStatus: []model.ReportStatus{model.ReportStatusInProgress},
			fromDrone:  []model.DroneStatus{model.DroneStatusNone},
			toStatus:   model.ReportStatusResolved,
		},
		{
			fromStatus: []model.ReportStatus{model.ReportStatusInProgress},
			fromDrone:  []model.DroneStatus{model.DroneStatusAssigned, model.DroneStatusInProgress, model.DroneStatusComplete},
			toStatus:   model.ReportStatusResolved,
			toDrone:    model.DroneStatusComplete,
		},
	},
}

// Outcome describes a successful transition.
type Outcome struct {
	StatusChanged bool
	DroneChanged  bool
	Events        []model.NotificationEvent
}

// Apply validates action against the report's current state, mutates Status
// and DroneStatus per the transition table and appends exactly one audit
// entry. No IO: the caller persists the report and enqueues Outcome.Events.
// The report is left untouched on error.
func Apply(r *model.Report, action Action, actor model.Principal, notes string, now time.Time) (Outcome, error) {
	rules, ok := transitions[action]
	if !ok {
		return Outcome{}, ErrUnknownAction
	}
	if r.Status.IsTerminal() {
		return Outcome{}, ErrTerminalState
	}

	for _, ru := range rules {
		if !ru.matches(r.Status, r.DroneStatus) {
			continue
		}

		var out Outcome
		if ru.toStatus != "" {
			out.StatusChanged = r.Status != ru.toStatus
			r.Status = ru.toStatus
		}
		if ru.toDrone != "" {
			out.DroneChanged = r.DroneStatus != ru.toDrone
			r.DroneStatus = ru.toDrone
		}

		entry := model.AuditEntry{
			Action:    action.AuditTag(),
			Notes:     notes,
			Timestamp: now.UTC(),
		}
		if actor.UserID != uuid.Nil {
			actorID := actor.UserID
			entry.ActorID = &actorID
			entry.ActorRole = string(actor.Role)
		}
		r.Audit = append(r.Audit, entry)

		out.Events = slices.Clone(ru.events)
		return out, nil
	}

	return Outcome{}, ErrIllegalTransition
}
