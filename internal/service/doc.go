// Package service provides the service registry for tool provider management.
//
// The registry maintains a catalog of available tool providers and handles
// service discovery, tool execution, and relevance scoring for agent queries.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//   - Service discovery with relevance scoring
//
// Features:
//   - Thread-safe service registration
//   - Category-based filtering
//   - Intent-based discovery with scoring
//   - Tool execution with context passing
//   - Service statistics and health
//
// Discovery Algorithm:
//   - Keyword matching in name/description
//   - Capability matching
//   - Category bonus for exact matches
//   - Score-based ranking
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(vaultProvider)
//	services := registry.Discover("read note", 5)
//	result, err := registry.Execute(ctx, "vault.read", params, appCtx)
package service
