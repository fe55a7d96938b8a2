// Package store holds the client-side catalogue state machine.
//
// [CatalogueStore] is the single source of truth for the movie list shown to
// the current session: it fetches from the session-appropriate endpoint,
// derives the filtered view from the canonical list and the search query,
// sorts for presentation, and applies optimistic like toggles with rollback.
// [MovieDetailStore] mirrors the same fetch and toggle contract for one movie.
//
// Loads are tagged with the session epoch they were issued under. When a
// session transition fires a new load while an older one is still in flight,
// the older result is discarded at resolution time instead of overwriting
// newer session-consistent data. The epoch check is the only cancellation
// mechanism; there is no explicit abort.
//
// Stores never let failures escape their public operations: fetch and toggle
// errors are captured into state and surfaced through the [Notifier] sink.
// State is guarded by a mutex so TUI command goroutines can read mid-flight;
// the optimistic flip and its rollback are atomic under the lock.
package store
