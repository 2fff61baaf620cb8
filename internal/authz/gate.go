// Package authz holds the role-based authorization gate consulted by every
// privileged operation. Decide is a pure function of the principal's role,
// id and email and of the targeted resource.
package authz

// Action names an operation the gate can decide on.
type Action string

const (
	ActionCreateRequest       Action = "create-request"
	ActionAcceptRequest       Action = "accept-request"
	ActionAssignMembers       Action = "assign-members"
	ActionApproveRequest      Action = "approve-request"
	ActionManageTeam          Action = "manage-team"
	ActionManageProjects      Action = "manage-projects"
	ActionSubmitReport        Action = "submit-report"
	ActionViewSecurityLogs    Action = "view-security-logs"
	ActionViewOwnProjects     Action = "view-own-projects"
	ActionViewRequests        Action = "view-requests"
	ActionViewAllReports      Action = "view-all-reports"
	ActionViewProjectReports  Action = "view-project-reports"
	ActionViewProject         Action = "view-project"
	ActionEditProjectProgress Action = "edit-project-progress"
	ActionManageTasks         Action = "manage-tasks"
	ActionViewTasks           Action = "view-tasks"
	ActionUpdateTaskStatus    Action = "update-task-status"
	ActionSendMessage         Action = "send-message"
	ActionViewMessages        Action = "view-messages"
	ActionViewTeam            Action = "view-team"
	ActionUploadFile          Action = "upload-file"
	ActionManageFile          Action = "manage-file"
)

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonPermissionDenied Reason = "permission-denied"
)

// Decision is the outcome of Decide.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allow = Decision{Allowed: true}

func deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide evaluates action for principal against the optional resource.
// Public intake is always allowed; every other action requires a principal
// with a non-empty id.
func Decide(p *Principal, action Action, res *Resource) Decision {
	if action == ActionCreateRequest {
		return allow
	}
	if p == nil || p.ID == "" {
		return deny(ReasonUnauthenticated)
	}

	ok := false
	switch action {
	case ActionAcceptRequest,
		ActionAssignMembers,
		ActionApproveRequest,
		ActionManageTeam,
		ActionManageProjects,
		ActionViewSecurityLogs,
		ActionViewRequests,
		ActionViewAllReports,
		ActionManageTasks,
		ActionViewTeam:
		ok = p.IsCEO()
	case ActionSubmitReport,
		ActionViewProjectReports,
		ActionEditProjectProgress,
		ActionUpdateTaskStatus:
		ok = p.IsCEO() || res.hasMember(p.Email)
	case ActionViewProject, ActionSendMessage, ActionViewMessages:
		ok = p.IsCEO() || projectParticipant(p, res)
	case ActionViewOwnProjects, ActionViewTasks, ActionUploadFile:
		ok = true
	case ActionManageFile:
		ok = p.IsCEO() || (res != nil && res.OwnerID != "" && res.OwnerID == p.ID)
	}

	if !ok {
		return deny(ReasonPermissionDenied)
	}
	return allow
}

// projectParticipant reports whether a non-CEO principal takes part in the
// project: members through the roster, clients through ownership.
func projectParticipant(p *Principal, res *Resource) bool {
	if res == nil {
		return false
	}
	switch p.Role {
	case RoleClient:
		return res.ClientID != "" && res.ClientID == p.ID
	default:
		return res.hasMember(p.Email)
	}
}
