package api

import (
	"context"
)

type keyType string

const adminSessionKey keyType = "adminSession"

// adminSession describes how the current request was authenticated
type adminSession struct {
	Subject string `json:"subject"`
	Method  string `json:"method"`
}

const (
	authMethodSecret  = "secret"
	authMethodSession = "session"
	authMethodBypass  = "development"
)

func ctxWithAdminSession(ctx context.Context, session adminSession) context.Context {
	return context.WithValue(ctx, adminSessionKey, session)
}

func ctxGetAdminSession(ctx context.Context) (adminSession, bool) {
	session, ok := ctx.Value(adminSessionKey).(adminSession)
	return session, ok
}
