package relay

import "github.com/google/uuid"

// ChatItem is one entry in the transcript. Content is overwritten whole as the
// author keeps typing; items are never deleted.
type ChatItem struct {
	ID      string
	Author  string
	Content string
	seq     int
}

// BacklogItem is the client-facing snapshot of one chat item.
type BacklogItem struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// ChatLog is the append-only transcript. It has no lock of its own; the owning
// Session's mutex guards it.
type ChatLog struct {
	items []*ChatItem
}

// NewChatLog creates an empty transcript.
func NewChatLog() *ChatLog {
	return &ChatLog{}
}

// Append adds a new item for author and returns it.
func (l *ChatLog) Append(author, content string) *ChatItem {
	item := &ChatItem{
		ID:      uuid.NewString(),
		Author:  author,
		Content: content,
		seq:     len(l.items),
	}
	l.items = append(l.items, item)
	return item
}

// Backlog returns a creation-ordered snapshot of all items with non-empty
// content. Used to hydrate (re)joining clients; a full snapshot, not a delta.
func (l *ChatLog) Backlog() []BacklogItem {
	backlog := make([]BacklogItem, 0, len(l.items))
	for _, item := range l.items {
		if item.Content == "" {
			continue
		}
		backlog = append(backlog, BacklogItem{Author: item.Author, Text: item.Content})
	}
	return backlog
}

// Len returns the total number of items, empty ones included.
func (l *ChatLog) Len() int {
	return len(l.items)
}
