package session

import "slices"

const flashKey = "_flash_messages"

type flashOptions struct {
	queue          string
	allowDuplicate bool
}

// FlashOption configures Flash.
type FlashOption func(*flashOptions)

// InQueue puts the message into a named queue instead of the default one.
func InQueue(queue string) FlashOption {
	return func(o *flashOptions) {
		o.queue = queue
	}
}

// NoDuplicate skips the message if the queue already holds an equal one.
func NoDuplicate() FlashOption {
	return func(o *flashOptions) {
		o.allowDuplicate = false
	}
}

// flashQueueKey returns the top-level key of a queue: "_flash_messages" or
// "_flash_messages.<queue>".
func flashQueueKey(queue string) string {
	if queue == "" {
		return flashKey
	}
	return flashKey + "." + queue
}

// Flash appends a one-time message to a queue.
func (s *Session) Flash(msg string, opts ...FlashOption) {
	s.guard()

	o := flashOptions{allowDuplicate: true}
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := flashQueueKey(o.queue)
	queue := toStrings(s.data[key])
	if !o.allowDuplicate && slices.Contains(queue, msg) {
		return
	}

	s.data[key] = toAny(append(queue, msg))
	s.changed = true
}

// PeekFlash returns the messages of a queue without removing them.
func (s *Session) PeekFlash(queue string) []string {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toStrings(s.data[flashQueueKey(queue)])
}

// PopFlash returns the messages of a queue and removes them.
func (s *Session) PopFlash(queue string) []string {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	key := flashQueueKey(queue)
	v, ok := s.data[key]
	if !ok {
		return []string{}
	}
	delete(s.data, key)
	s.changed = true
	return toStrings(v)
}

// toStrings accepts both the in-memory and the decoded representation of a queue.
func toStrings(v any) []string {
	switch q := v.(type) {
	case []string:
		return slices.Clone(q)
	case []any:
		out := make([]string, 0, len(q))
		for _, m := range q {
			if str, ok := m.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}

// toAny stores queues as []any so they compare equal after a store round trip.
func toAny(q []string) []any {
	out := make([]any, len(q))
	for i, m := range q {
		out[i] = m
	}
	return out
}
