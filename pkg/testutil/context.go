package testutil

import (
	"net/http"
	"time"

	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// AsActor simulates the auth middleware for handler tests.
func AsActor(req *http.Request, actorID id.UserID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actorID, role))
}

// AtTime pins the request clock the way the requesttime middleware would.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
