// Package config provides 12-factor configuration management for the backend.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Vault: Document-store API connection settings
//   - Sandbox: Script execution limits (timeout, memory)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, VAULT_URL, VAULT_API_KEY
//   - SANDBOX_TIMEOUT_MS, SANDBOX_MEMORY_LIMIT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
