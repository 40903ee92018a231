// Package config provides 12-factor configuration for the library's
// default session.
//
// Configuration is loaded from environment variables with sensible
// defaults, or from a YAML file applied over those defaults.
//
// Configuration Sections:
//   - Backend: which storage backend the default session uses
//   - HTTP: tuning for the HTTP blob backend
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Println(cfg.Backend.Kind, cfg.StorageRoot())
//
// Environment Variables:
//   - MODELVAULT_BACKEND, MODELVAULT_ROOT, MODELVAULT_BASE_URL
//   - MODELVAULT_HTTP_TIMEOUT, MODELVAULT_HTTP_RETRY_MAX,
//     MODELVAULT_HTTP_RETRY_WAIT_MIN, MODELVAULT_HTTP_RETRY_WAIT_MAX,
//     MODELVAULT_HTTP_RPS, MODELVAULT_HTTP_BURST
//   - MODELVAULT_LOG_LEVEL, MODELVAULT_LOG_DEV
package config
