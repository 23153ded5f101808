// Package config handles loading and parsing the movieflix configuration file.
//
// # Overview
//
// The configuration tells movieflix how to reach the TMDB catalog API and
// where to keep local state (watchlist, history, logs). Every field is
// optional except the API key, which may come from the file, the
// TMDB_API_KEY environment variable, or a .env file in the working directory.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. Load ./.env into the process environment when present
//  2. If a path is explicitly provided, use it
//  3. Otherwise, use ~/.config/movieflix/config.toml (default)
//  4. If the config file doesn't exist, fall back to hardcoded defaults
//  5. If the file exists but fields are missing/empty, use defaults
//  6. TMDB_API_KEY, when set, replaces api_key
//
// # Default Values
//
//   - Config file: ~/.config/movieflix/config.toml
//   - API base: https://api.themoviedb.org/3
//   - Image base: https://image.tmdb.org/t/p/w500
//   - Data directory: ~/.local/share/movieflix
//   - Store backend: file (library.json); sqlite uses library.db
//   - History limit: 20
//   - Feed refresh: 30 minutes
//   - Log file: <data_dir>/movieflix.log
//
// # TOML Format
//
//	api_key = "..."
//	data_dir = "~/.local/share/movieflix"
//	store_backend = "sqlite"
//	history_limit = 20
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing API key is not a load
// error; commands that call the catalog check RequireAPIKey instead so the
// offline subcommands (watchlist list, history) keep working.
package config
