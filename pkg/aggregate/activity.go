package aggregate

// LastActivity computes a parent's last-activity timestamp: the maximum
// valid timestamp across its child facts, falling back to the parent's own
// creation timestamp, and finally to "" (which orders last) when neither
// yields a parseable time.
func LastActivity(createdAt string, childTimes ...string) string {
	if latest := MaxTime(childTimes...); latest != "" {
		return latest
	}
	if _, ok := ParseTime(createdAt); ok {
		return createdAt
	}
	return ""
}
