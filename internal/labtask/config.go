package labtask

import "github.com/abhisek/labgen/internal/llm"

// Config controls the Generation Client.
type Config struct {
	// MaxTokens bounds the size of the backend response.
	MaxTokens int

	// Temperature is fixed moderately high so pool entries vary.
	Temperature float64

	// Format asks the backend for a JSON object when it supports one.
	// The parser still strips fences and checks shape either way.
	Format llm.Format

	// Purpose labels backend calls in the request event log.
	Purpose string
}

// DefaultConfig returns the standard sampling parameters.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2000,
		Temperature: 0.8,
		Format:      llm.FormatJSON,
		Purpose:     "lab-task-gen",
	}
}
