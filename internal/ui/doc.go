// Package ui implements the movieflix terminal interface with Bubble Tea.
//
// The root Model owns four views: Home (featured banner, optional search
// results row, then the Trending, Popular and Top Rated rows), Watchlist,
// History and About. Movie details open in a modal over the current view.
//
// Data flows in through three channels:
//
//   - the state.Store snapshot, polled on a tick and replaced only when its
//     version changes
//   - the library.Library, reloaded after every write and whenever the
//     backing store changes on disk
//   - catalog commands for search, suggestions and details, each tagged with
//     a sequence number so late responses are dropped
//
// All catalog calls run inside tea.Cmd closures bounded by RequestTimeout.
// Opening a movie records it in the history synchronously before the modal
// is shown.
package ui
