// Package mcp provides an MCP (Model Context Protocol) server adapter for Kontext.
// It lets AI assistants retrieve indexed document context over the protocol.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
