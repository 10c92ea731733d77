package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
	verbose bool
}

var defaultLogger *Logger

// Categories for consistent logging
const (
	CategoryNetwork  = "NETWORK"
	CategoryProvider = "PROVIDER"
	CategoryConfig   = "CONFIG"
	CategoryUpload   = "UPLOAD"
	CategoryEngine   = "ENGINE"
	CategoryNotify   = "NOTIFY"
	CategoryError    = "ERROR"
)

// Init initializes the logging system with verbose flag and output destination
func Init(verbose bool, output io.Writer) {
	logger := logrus.New()

	if output != nil {
		logger.SetOutput(output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	// Configure formatter based on output type and verbose setting
	if isTTY(logger.Out) && verbose {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
			DisableColors:   false,
		})
	} else if isTTY(logger.Out) {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: false,
			ForceColors:   true,
			DisableColors: false,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		// Only show errors and above in non-verbose mode
		logger.SetLevel(logrus.ErrorLevel)
	}

	logger.SetReportCaller(false)

	defaultLogger = &Logger{
		Logger:  logger,
		verbose: verbose,
	}
}

// isTTY checks if the output is a terminal
func isTTY(output io.Writer) bool {
	file, ok := output.(*os.File)
	return ok && (file.Fd() == 1 || file.Fd() == 2)
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	if defaultLogger == nil {
		return false
	}
	return defaultLogger.verbose
}

func (l *Logger) logWithCategory(level logrus.Level, category string, message string, fields logrus.Fields) {
	if l == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["category"] = category

	l.WithFields(fields).Log(level, message)
}

// Network Operations Logging Functions
func HTTPRequest(method, url string, headers map[string]string) {
	if !IsVerbose() {
		return
	}
	fields := logrus.Fields{
		"method": method,
		"url":    url,
	}
	if len(headers) > 0 {
		fields["headers"] = headers
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryNetwork, "HTTP request", fields)
}

func HTTPResponse(statusCode int, body string, duration time.Duration) {
	if !IsVerbose() {
		return
	}
	fields := logrus.Fields{
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}
	if body != "" {
		// Limit body length for readability
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		fields["body"] = body
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryNetwork, "HTTP response", fields)
}

func ProviderConfig(providerName string, config map[string]interface{}) {
	if !IsVerbose() || len(config) == 0 {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryProvider, "Provider configuration", logrus.Fields{
		"provider": providerName,
		"config":   config,
	})
}

// Configuration Logging Functions
func ConfigLoad(source string, values interface{}) {
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryConfig, "Loading configuration", logrus.Fields{
		"source": source,
		"values": values,
	})
}

func CredentialSource(source string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryConfig, "Credential resolution", logrus.Fields{
		"source": source,
	})
}

// Upload Process Logging Functions
func UploadStart(filename string, size int64) {
	defaultLogger.logWithCategory(logrus.InfoLevel, CategoryUpload, "Starting upload", logrus.Fields{
		"filename": filename,
		"size":     size,
	})
}

func UploadComplete(filename string, url string, duration time.Duration) {
	defaultLogger.logWithCategory(logrus.InfoLevel, CategoryUpload, "Upload completed", logrus.Fields{
		"filename":    filename,
		"url":         url,
		"duration_ms": duration.Milliseconds(),
	})
}

func UploadError(filename string, provider string, err error) {
	defaultLogger.logWithCategory(logrus.ErrorLevel, CategoryUpload, "Upload failed", logrus.Fields{
		"filename": filename,
		"provider": provider,
		"error":    err,
	})
}

// Engine Lifecycle Logging Functions
func EntryAdded(entryID string, path string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryEngine, "Entry added", logrus.Fields{
		"entry_id": entryID,
		"path":     path,
	})
}

func EntryRemoved(entryID string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryEngine, "Entry removed", logrus.Fields{
		"entry_id": entryID,
	})
}

func EntryTransition(entryID string, from, to string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryEngine, "Entry state transition", logrus.Fields{
		"entry_id": entryID,
		"from":     from,
		"to":       to,
	})
}

func StaleCompletion(entryID string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryEngine, "Completion for removed entry dropped", logrus.Fields{
		"entry_id": entryID,
	})
}

// Side-Effect Logging Functions
func ClipboardCopy(url string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryNotify, "Copied URL to clipboard", logrus.Fields{
		"url": url,
	})
}

func NotifySent(title string) {
	if !IsVerbose() {
		return
	}
	defaultLogger.logWithCategory(logrus.DebugLevel, CategoryNotify, "Notification dispatched", logrus.Fields{
		"title": title,
	})
}

func SideEffectError(effect string, err error) {
	defaultLogger.logWithCategory(logrus.WarnLevel, CategoryNotify, "Side effect failed", logrus.Fields{
		"effect": effect,
		"error":  err,
	})
}

// Error Context Logging Functions
func ErrorContext(context string, err error, details map[string]interface{}) {
	if !IsVerbose() || err == nil {
		return
	}
	fields := logrus.Fields{
		"context": context,
		"error":   err,
	}
	for k, v := range details {
		fields[k] = v
	}
	defaultLogger.logWithCategory(logrus.ErrorLevel, CategoryError, "Error occurred", fields)
}

// General logging methods for direct access
func Info(message string, fields logrus.Fields) {
	defaultLogger.logWithCategory(logrus.InfoLevel, "GENERAL", message, fields)
}

func Debug(message string, fields logrus.Fields) {
	defaultLogger.logWithCategory(logrus.DebugLevel, "GENERAL", message, fields)
}

func Error(message string, fields logrus.Fields) {
	defaultLogger.logWithCategory(logrus.ErrorLevel, "GENERAL", message, fields)
}

func Warn(message string, fields logrus.Fields) {
	defaultLogger.logWithCategory(logrus.WarnLevel, "GENERAL", message, fields)
}
