// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes restcodec capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/erraggy/restcodec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `restcodec MCP server: inspects service descriptions, builds HTTP requests from named commands, and extracts results from HTTP responses.

Configuration: All defaults are configurable via RESTCODEC_* environment variables set in your MCP client config.

Key settings:
- RESTCODEC_CACHE_FILE_TTL (default: 15m): cache TTL for local description files
- RESTCODEC_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched descriptions
- RESTCODEC_CACHE_ENABLED (default: true): disable description caching entirely
- RESTCODEC_OPERATIONS_LIMIT (default: 100): default result limit for the operations tool
- RESTCODEC_VALIDATE (default: false): validate command values before serializing
- RESTCODEC_USER_AGENT: User-Agent for serialized requests (default: restcodec/<version>)
- RESTCODEC_ALLOW_PRIVATE_IPS (default: false): allow fetching descriptions from private addresses

Caching: Loaded descriptions are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		descCache.sweepEvery(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "restcodec", Version: restcodec.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "operations",
		Description: "List the operations of a service description: name, HTTP method, URI template, summary and response model. Filter by name with a glob pattern (e.g. Get*). Use detail=true to include each operation's parameters with their locations, wire names, types and filters. Use offset/limit to paginate. Default limit is configurable via RESTCODEC_OPERATIONS_LIMIT.",
	}, handleOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "serialize",
		Description: "Build the HTTP request for a named operation from parameter values. Returns the method, URL, headers and body exactly as they would be sent. postFile parameters take inline file content as a string. Set validate=true to check values against parameter constraints first (default from RESTCODEC_VALIDATE).",
	}, handleSerialize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "deserialize",
		Description: "Extract the result of a named operation from an HTTP response (status, headers and body) using the operation's response model. Returns the result keyed by model property name. Operations without a response model return an empty result.",
	}, handleDeserialize)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.OperationsLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.OperationsLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchName reports whether name matches pattern: a glob when it has glob
// characters, a case-insensitive equality otherwise. An empty pattern
// matches everything.
func matchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.EqualFold(pattern, name)
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}
