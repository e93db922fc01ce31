package server

import (
	"encoding/json"
	"errors"
)

var errMethodNotFound = errors.New("method not found")

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":          handleStatus,
		"sessions":        handleSessions,
		"server.shutdown": handleShutdown,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, errMethodNotFound
	}

	return handler(params)
}

func handleStatus(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"status":   "ok",
		"version":  Version,
		"sessions": SessionCount(),
	}, nil
}

func handleSessions(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"sessions": SessionList(),
	}, nil
}

func handleShutdown(json.RawMessage) (interface{}, error) {
	shutdown()
	return okResponse, nil
}
