package broadcast

import "errors"

// ErrBroadcasterClosed is returned when broadcasting on a closed broadcaster.
var ErrBroadcasterClosed = errors.New("broadcast: broadcaster is closed")
