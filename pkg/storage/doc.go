/*
Package storage provides the persistent key-value store behind the
session manager.

KV is the contract: Get/Set/Remove on string keys. Two implementations
ship here:

  - BoltStore: a bbolt database (brigada.db) in the configured data
    directory, one "session" bucket. It survives process restarts the
    way a browser's local storage survives reloads.
  - MemoryStore: a mutex-guarded map for tests and ephemeral sessions.

Only the session manager writes to the store, and only the two keys it
owns: KeyToken (the raw bearer credential) and KeyUser (the JSON-encoded
profile).

bbolt holds an exclusive file lock while open. NewBoltStore waits up to
two seconds for a concurrent process to release it before failing.
*/
package storage
