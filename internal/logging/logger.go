// Package logging provides category-based file logging for personify.
// Logs are written to <state dir>/logs with one file per category.
// Nothing is written unless Initialize has been called with debug enabled.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot          Category = "boot"          // Startup and configuration
	CategoryAPI           Category = "api"           // Generation service calls
	CategoryAnalysis      Category = "analysis"      // Manual assembly
	CategoryDomains       Category = "domains"       // Per-domain quantitative scoring
	CategoryDataset       Category = "dataset"       // Fine-tuning dataset generation
	CategoryStorage       Category = "storage"       // Object storage uploads
	CategoryStore         Category = "store"         // Local session store
	CategoryTranscription Category = "transcription" // Audio transcription
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Options controls logger behavior. Passed in by the config layer so this
// package never reads config files itself.
type Options struct {
	Debug      bool
	Level      string
	Categories map[string]bool // nil = all enabled
}

// Logger wraps a standard logger bound to one category file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	opts      Options
	optsMu    sync.RWMutex
	logLevel  int
)

// Initialize sets up the logging directory. Should be called once at startup.
// With opts.Debug false this is a silent no-op.
func Initialize(stateDir string, o Options) error {
	if stateDir == "" {
		return fmt.Errorf("state dir required")
	}

	optsMu.Lock()
	opts = o
	switch o.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	optsMu.Unlock()

	if !o.Debug {
		return nil
	}

	logsDir = filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== personify logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", o.Level)
	return nil
}

// IsCategoryEnabled reports whether a category will produce output.
func IsCategoryEnabled(category Category) bool {
	optsMu.RLock()
	defer optsMu.RUnlock()

	if !opts.Debug {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message (only if level <= info).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message (only if level <= warn).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always logged if logger exists).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// API logs to the api category.
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

// APIDebug logs debug to the api category.
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

// APIError logs error to the api category.
func APIError(format string, args ...interface{}) {
	Get(CategoryAPI).Error(format, args...)
}

// Analysis logs to the analysis category.
func Analysis(format string, args ...interface{}) {
	Get(CategoryAnalysis).Info(format, args...)
}

// AnalysisDebug logs debug to the analysis category.
func AnalysisDebug(format string, args ...interface{}) {
	Get(CategoryAnalysis).Debug(format, args...)
}

// AnalysisWarn logs warning to the analysis category.
func AnalysisWarn(format string, args ...interface{}) {
	Get(CategoryAnalysis).Warn(format, args...)
}

// AnalysisError logs error to the analysis category.
func AnalysisError(format string, args ...interface{}) {
	Get(CategoryAnalysis).Error(format, args...)
}

// Domains logs to the domains category.
func Domains(format string, args ...interface{}) {
	Get(CategoryDomains).Info(format, args...)
}

// DomainsError logs error to the domains category.
func DomainsError(format string, args ...interface{}) {
	Get(CategoryDomains).Error(format, args...)
}

// Dataset logs to the dataset category.
func Dataset(format string, args ...interface{}) {
	Get(CategoryDataset).Info(format, args...)
}

// Storage logs to the storage category.
func Storage(format string, args ...interface{}) {
	Get(CategoryStorage).Info(format, args...)
}

// StorageError logs error to the storage category.
func StorageError(format string, args ...interface{}) {
	Get(CategoryStorage).Error(format, args...)
}

// Store logs to the store category.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// Transcription logs to the transcription category.
func Transcription(format string, args ...interface{}) {
	Get(CategoryTranscription).Info(format, args...)
}

// TranscriptionError logs error to the transcription category.
func TranscriptionError(format string, args ...interface{}) {
	Get(CategoryTranscription).Error(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithInfo ends the timer and logs at info level.
func (t *Timer) StopWithInfo() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Info("%s completed in %v", t.op, elapsed)
	return elapsed
}
