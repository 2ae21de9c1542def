/*
Package session manages in-flight dialog sessions for headless surfaces.

The HTTP and MCP adapters cannot keep a Dialog in memory between requests, so
the Manager persists each dialog's Round and DialogState in a ports.DialogStore
and rebuilds the dialog for every batch of events.

# Key Components

  - Manager.Open: Validates a round and stores a fresh session under a new UUID.
  - Manager.Apply: Replays events under the session lock and saves the snapshot.
    Completed sessions are removed from the store.
  - Manager.WithLock: Per-session mutex with reference counting, optionally
    backed by a ports.DistributedLocker across replicas.
*/
package session
