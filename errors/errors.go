package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrUnauthenticated  = fmt.Errorf("unauthenticated")
	ErrNotAMember       = fmt.Errorf("not a member of the room")
	ErrRoomNotFound     = fmt.Errorf("room not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrEmptyMessage     = fmt.Errorf("empty message body")
	ErrUnknownFrameKind = fmt.Errorf("unknown frame kind")
	ErrNotJoined        = fmt.Errorf("connection has not joined a room")
)

// Is re-exports the standard chain match so call sites pairing it with
// the sentinels above keep a single errors import.
var Is = errors.Is
