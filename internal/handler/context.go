package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SessionCtxKey   ContextKey = "session"
	ProfileIDCtxKey ContextKey = "profileID"
	MyProfileCtx    ContextKey = "myProfile"
	ProfileCtx      ContextKey = "profile"
	ShiftCtx        ContextKey = "shift"
)
