package event

import (
	"fmt"

	"github.com/nhath/lazydb/internal/db"
)

// AppEvent is a system notification that no key press produces directly.
type AppEvent interface {
	isAppEvent()
	String() string
}

// Severity of a UserMessage.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "Error"
	}
	return "Info"
}

// ConnectionEstablished carries the caller's own reference to the new
// connection. The receiver is responsible for releasing it.
type ConnectionEstablished struct {
	Handle *db.Handle
}

// QueryResult pairs a result with the tag of the request that produced it.
type QueryResult struct {
	Result *db.QueryResult
	Tag    db.QueryTag
}

type UserMessage struct {
	Severity Severity
	Text     string
}

func (ConnectionEstablished) isAppEvent() {}
func (QueryResult) isAppEvent()           {}
func (UserMessage) isAppEvent()           {}

func (e ConnectionEstablished) String() string {
	if e.Handle == nil {
		return "ConnectionEstablished(<nil>)"
	}
	return fmt.Sprintf("ConnectionEstablished(%s#%d)", e.Handle.Name(), e.Handle.Generation())
}

func (e QueryResult) String() string {
	rows := 0
	if e.Result != nil {
		rows = len(e.Result.Rows)
	}
	return fmt.Sprintf("QueryResult(%s, %d rows)", e.Tag, rows)
}

func (e UserMessage) String() string {
	return fmt.Sprintf("UserMessage(%s, %s)", e.Severity, e.Text)
}

// Infof builds an informational UserMessage.
func Infof(format string, args ...any) UserMessage {
	return UserMessage{Severity: SeverityInfo, Text: fmt.Sprintf(format, args...)}
}

// Errorf builds an error UserMessage.
func Errorf(format string, args ...any) UserMessage {
	return UserMessage{Severity: SeverityError, Text: fmt.Sprintf(format, args...)}
}
