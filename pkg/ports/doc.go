/*
Package ports defines the driven ports (interfaces) of the decision-point engine.

These interfaces decouple the dialog state machine from its collaborators, so the same
core can run behind a terminal, an HTTP API or an MCP server.

# Key Interfaces

  - ReplySink: Receives the single encoded reply when a dialog submits.
  - TextEditor: The free-text editing buffer used while the operator types an answer.
  - DialogStore: Persists in-flight dialog sessions for headless surfaces.
  - DistributedLocker: Serializes access to a dialog session across replicas.
  - TranscriptSource: Supplies agent messages to parse (files, document stores).
*/
package ports
