package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pothole-service/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newReport(status model.ReportStatus, drone model.DroneStatus) *model.Report {
	return &model.Report{
		ID:          uuid.New(),
		Location:    "MG Road, Sector 4",
		Status:      status,
		DroneStatus: drone,
	}
}

func newActor() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.UserRoleAuthority}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("notify_authorities")
	require.NoError(t, err)
	require.Equal(t, ActionNotifyAuthorities, a)

	a, err = ParseAction(" repair-done ")
	require.NoError(t, err)
	require.Equal(t, ActionRepairDone, a)

	_, err = ParseAction("self_destruct")
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestApply_NotifyAuthorities(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)
	actor := newActor()

	out, err := Apply(r, ActionNotifyAuthorities, actor, "large pothole near school", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusReported, r.Status)
	require.True(t, out.StatusChanged)
	require.Equal(t, []model.NotificationEvent{model.NotificationEventAuthorityAlert}, out.Events)

	require.Len(t, r.Audit, 1)
	entry := r.Audit[0]
	require.Equal(t, "notify_authorities", entry.Action)
	require.Equal(t, actor.UserID, *entry.ActorID)
	require.Equal(t, string(model.UserRoleAuthority), entry.ActorRole)
	require.Equal(t, "large pothole near school", entry.Notes)
	require.True(t, entry.Timestamp.Equal(testNow))
}

func TestApply_NotifyAuthoritiesRepeats(t *testing.T) {
	r := newReport(model.ReportStatusReported, model.DroneStatusNone)

	out, err := Apply(r, ActionNotifyAuthorities, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusReported, r.Status)
	require.False(t, out.StatusChanged)
	require.Len(t, r.Audit, 1)
}

func TestApply_AssignDrone(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)

	out, err := Apply(r, ActionAssignDrone, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusPending, r.Status)
	require.Equal(t, model.DroneStatusAssigned, r.DroneStatus)
	require.False(t, out.StatusChanged)
	require.True(t, out.DroneChanged)
	require.Equal(t, []model.NotificationEvent{model.NotificationEventDroneAssigned}, out.Events)

	// Second assignment has no drone to give out.
	_, err = Apply(r, ActionAssignDrone, newActor(), "", testNow)
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.Len(t, r.Audit, 1)
}

func TestApply_DispatchDroneRequiresAssignment(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)
	_, err := Apply(r, ActionDispatchDrone, newActor(), "", testNow)
	require.ErrorIs(t, err, ErrIllegalTransition)

	r.DroneStatus = model.DroneStatusAssigned
	out, err := Apply(r, ActionDispatchDrone, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.DroneStatusInProgress, r.DroneStatus)
	require.Equal(t, model.ReportStatusPending, r.Status)
	require.Empty(t, out.Events)
}

func TestApply_InspectionDone(t *testing.T) {
	r := newReport(model.ReportStatusReported, model.DroneStatusNone)
	_, err := Apply(r, ActionInspectionDone, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusInspected, r.Status)

	// Drone mid-flight can inspect a report nobody escalated.
	r = newReport(model.ReportStatusPending, model.DroneStatusInProgress)
	_, err = Apply(r, ActionInspectionDone, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusInspected, r.Status)

	r = newReport(model.ReportStatusPending, model.DroneStatusNone)
	_, err = Apply(r, ActionInspectionDone, newActor(), "", testNow)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestApply_FullRepairPath(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)
	actor := newActor()

	steps := []struct {
		action Action
		status model.ReportStatus
	}{
		{ActionNotifyAuthorities, model.ReportStatusReported},
		{ActionInspectionDone, model.ReportStatusInspected},
		{ActionScheduleRepair, model.ReportStatusInProgress},
		{ActionRepairDone, model.ReportStatusResolved},
	}
	for i, step := range steps {
		_, err := Apply(r, step.action, actor, "", testNow)
		require.NoError(t, err, "step %d %s", i, step.action)
		require.Equal(t, step.status, r.Status)
		require.Len(t, r.Audit, i+1)
		require.Equal(t, step.action.AuditTag(), r.Audit[i].Action)
	}
	require.Equal(t, model.DroneStatusNone, r.DroneStatus)
}

func TestApply_RepairDoneCompletesDrone(t *testing.T) {
	r := newReport(model.ReportStatusInProgress, model.DroneStatusInProgress)
	_, err := Apply(r, ActionRepairDone, newActor(), "", testNow)
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusResolved, r.Status)
	require.Equal(t, model.DroneStatusComplete, r.DroneStatus)
}

func TestApply_TerminalRejectsEveryAction(t *testing.T) {
	for action := range transitions {
		r := newReport(model.ReportStatusResolved, model.DroneStatusComplete)
		_, err := Apply(r, action, newActor(), "", testNow)
		require.ErrorIs(t, err, ErrTerminalState, "action %s", action)
		require.Empty(t, r.Audit)
	}
}

func TestApply_UnknownAction(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)
	_, err := Apply(r, Action("ESCALATE"), newActor(), "", testNow)
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestApply_TouchesOnlyStatusDroneAudit(t *testing.T) {
	r := newReport(model.ReportStatusPending, model.DroneStatusNone)
	r.Severity = model.SeverityModerate
	r.Material = "Cold Mix Asphalt"
	r.BagsRequired = 3
	r.EstimatedCostINR = 1440
	r.Detection = model.DetectionSummary{PotholeCount: 2, TotalAreaM2: 0.25, ConfidencePercent: 81}
	r.Version = 7
	before := *r

	_, err := Apply(r, ActionNotifyAuthorities, newActor(), "", testNow)
	require.NoError(t, err)

	require.Equal(t, before.ID, r.ID)
	require.Equal(t, before.Location, r.Location)
	require.Equal(t, before.Coordinates, r.Coordinates)
	require.Equal(t, before.Detection, r.Detection)
	require.Equal(t, before.Severity, r.Severity)
	require.Equal(t, before.Material, r.Material)
	require.Equal(t, before.BagsRequired, r.BagsRequired)
	require.Equal(t, before.EstimatedCostINR, r.EstimatedCostINR)
	require.Equal(t, before.Version, r.Version)
}

func TestApply_FailedTransitionLeavesReportUntouched(t *testing.T) {
	r := newReport(model.ReportStatusInspected, model.DroneStatusAssigned)
	before := *r
	before.Audit = slicesCloneAudit(r.Audit)

	_, err := Apply(r, ActionNotifyAuthorities, newActor(), "", testNow)
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.Equal(t, before.Status, r.Status)
	require.Equal(t, before.DroneStatus, r.DroneStatus)
	require.Len(t, r.Audit, len(before.Audit))
}

func slicesCloneAudit(in []model.AuditEntry) []model.AuditEntry {
	out := make([]model.AuditEntry, len(in))
	copy(out, in)
	return out
}
