package storage

// Keys owned by the session manager
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// KV is a persistent string key-value store that survives restarts.
// Get reports ok=false for a missing key; Remove of a missing key is not
// an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}
