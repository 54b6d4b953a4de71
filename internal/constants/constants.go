package constants

// Session
const (
	SessionCookieName = "workspace_session"
	ContextKeyUserID  = "user_id"
)

// Context keys set by scope middleware for handlers downstream.
const (
	ContextKeyOrgScope     = "org_scope"
	ContextKeyProjectScope = "project_scope"
)

// Session key prefix for the per-organization active project pointer.
const ActiveProjectKeyPrefix = "active_project:"

const MinPasswordLength = 8

// InvitationTTLDays is how long an issued invitation stays redeemable.
const InvitationTTLDays = 7
