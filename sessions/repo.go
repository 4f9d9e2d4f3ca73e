package sessions

// Storage is the durable client-side store the raw identity token is persisted in,
// keyed by the user pool ID. It only exists to restore a session after a restart.
type Storage interface {
	// Get returns the value stored under key, or errors.ErrNotFound
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Clear removes every key, not just the token
	Clear() error
}
