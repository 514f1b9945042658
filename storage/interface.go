package storage

import "github.com/catascopic/solstice/relay"

// Ensure *Store satisfies the session's sink at compile time.
var _ relay.EventSink = (*Store)(nil)
