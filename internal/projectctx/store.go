// Package projectctx holds the per-browser-session "active project" pointer,
// one per organization. The pointer lives in the session cookie, so writes
// must only happen while a response can still set cookies. The package
// enforces that split at the type level: Reader is available to any code
// path, while a Writer can only be constructed for requests that represent a
// mutation.
package projectctx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/constants"
)

// ErrReadOnlyPhase is returned when a Writer is requested during a request
// that must not mutate session state.
var ErrReadOnlyPhase = errors.New("projectctx: writes are not allowed during read-only requests")

// Reader reads the active project pointer. Safe everywhere.
type Reader interface {
	// ActiveProjectID returns the active project for the organization, if one
	// was selected in this browser session.
	ActiveProjectID(orgID uint64) (uint64, bool)
}

// Writer mutates the active project pointer. Only obtainable inside explicit
// action handlers; see NewWriter.
type Writer interface {
	// SetActiveProject remembers the project as active for the organization.
	SetActiveProject(orgID, projectID uint64) error

	// ClearActiveProject forgets the active project for the organization.
	ClearActiveProject(orgID uint64) error
}

type sessionStore struct {
	c *gin.Context
}

// NewReader returns a read-only view of the active project pointer.
func NewReader(c *gin.Context) Reader {
	return &sessionStore{c: c}
}

// NewWriter returns a Writer, or ErrReadOnlyPhase when the request method is
// read-only. Rendering paths use GET and therefore can never obtain write
// capability.
func NewWriter(c *gin.Context) (Writer, error) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil, ErrReadOnlyPhase
	}
	return &sessionStore{c: c}, nil
}

func activeProjectKey(orgID uint64) string {
	return constants.ActiveProjectKeyPrefix + strconv.FormatUint(orgID, 10)
}

func (s *sessionStore) ActiveProjectID(orgID uint64) (uint64, bool) {
	session := sessions.Default(s.c)
	value := session.Get(activeProjectKey(orgID))

	switch id := value.(type) {
	case uint64:
		return id, true
	case int64:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}

func (s *sessionStore) SetActiveProject(orgID, projectID uint64) error {
	session := sessions.Default(s.c)
	session.Set(activeProjectKey(orgID), projectID)
	return session.Save()
}

func (s *sessionStore) ClearActiveProject(orgID uint64) error {
	session := sessions.Default(s.c)
	session.Delete(activeProjectKey(orgID))
	return session.Save()
}
