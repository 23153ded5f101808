// Package state provides thread-safe sharing of the home feed between the
// background refresher and the UI.
//
// # Overview
//
// The refresher loads the three category rows on a fixed cadence and hands
// the result to Store.Update. The UI reads Store.Snapshot on its own tick and
// renders whatever is there. Neither side blocks on the other's network I/O
// or rendering.
//
//	Producer (refresher):          Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ feed.Load()      │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│  wait interval   │           │  render rows     │
//	└──────────────────┘           └──────────────────┘
//
// # Update Semantics
//
//   - Every row loaded: the rows and featured movie are replaced and the
//     failure counter resets.
//   - Some rows failed: the failed rows keep their previous movies and carry
//     the new error. Healthy rows are replaced.
//   - Every row failed: nothing is replaced. LastError is set and
//     ConsecutiveFailures increments. Two or more in a row is reported as
//     offline.
//
// Version increments on every Update so the UI can tell whether a snapshot
// is new.
//
// # Copying
//
// Snapshot returns cloned row slices, a copied featured movie and a wrapped
// error, so the UI may mutate what it receives.
//
// The zero Store is ready to use.
package state
