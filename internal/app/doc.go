// Package app is the composition root for movieflix.
//
// Setup builds the pieces every command shares: config, the zap logger, the
// key-value store and the library. Run adds the parts only the TUI needs and
// blocks until the program exits:
//
//	Run()
//	  ├─> Setup()                  config, logger, storage, library
//	  ├─> Env.Catalog()            TMDB client (requires an API key)
//	  ├─> Refresher.Start()        background feed loads into state.Store
//	  ├─> watchStore()             fsnotify on the store file
//	  └─> ui.Run()                 Bubble Tea program (blocks)
//
// # Refresh Behavior
//
// The refresher loads all three rows concurrently every refresh_minutes
// (default 30). A load where every row fails keeps the previous rows and
// schedules a retry with exponential backoff, starting at 15 seconds and
// capped at 5 minutes. The UI's reload key triggers an immediate load.
//
// # Error Handling
//
// Config, logger and store failures are fatal and returned from Setup. A
// missing API key is returned by Env.Catalog, so local-only subcommands such
// as "watchlist list" still work without one. Feed and watcher failures are
// logged and never stop the UI.
package app
