// Package config loads reel's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/reel/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	base_url = "https://static.linetv.tw/"
//	dramas_path = "interview/dramas-sample.json"
//	request_timeout_seconds = 10
//
//	[cache]
//	backend = "sqlite"          # sqlite, memory or redis
//	path = "~/.local/share/reel/offline.db"
//	redis_addr = ""
//	redis_password = ""
//	redis_db = 0
//
//	[connectivity]
//	probe_address = "static.linetv.tw:443"
//	probe_interval_seconds = 5
//	watch_paths = ["/etc/resolv.conf"]
//
//	[log]
//	level = "info"
//	format = "text"             # text or json
//	file = "~/.local/share/reel/logs/reel.log"
//
// Tilde expansion is performed for every path field. An explicitly empty
// watch_paths list turns off file watching and leaves the prober on its
// interval alone.
//
// Missing config files are not an error. Unknown cache backends, a redis
// backend without an address and negative durations are.
package config
