// Package syncmap offers a lightweight, generic, concurrency-safe map guarded
// by a sync.RWMutex. The agent uses it to index tools by name.
package syncmap
