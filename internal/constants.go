package internal

const (
	COOKIE_SESSION_NAME = "aidbridge_session"
)
