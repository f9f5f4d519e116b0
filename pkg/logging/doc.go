// Package logging provides structured logging configuration for contentspec.
//
// This package wraps log/slog to provide consistent logging across all contentspec
// components. It supports configurable log levels and output formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("specification loaded", "version", "v2")
//	logger.Error("failed to open specification", "error", err)
//
// # Log Levels
//
// Four log levels are supported:
//   - Debug: Detailed information for debugging
//   - Info: General operational information
//   - Warn: Warning conditions that should be addressed
//   - Error: Error conditions that need attention
//
// # Output Formats
//
//   - Text: Human-readable format for development
//   - JSON: Structured format for log aggregation systems
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or as a functional option.
// If no logger is provided, use logging.Nop() for a no-op logger.
//
// NewMultiHandler fans records out to several handlers, for example stderr
// and a log file.
package logging
