package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"downloaderapi/internal/model"
	"downloaderapi/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// outputPattern is the engine template for fetched files inside the download dir.
const outputPattern = "%(title)s.%(ext)s"

// Manager owns the download directory and optional cleanup of fetched files.
type Manager struct {
	cfg      *model.StorageConfig
	dir      string
	files    map[string]*model.DownloadedFile
	mu       sync.RWMutex
	quitChan chan struct{}
	stopOnce sync.Once
}

// NewManager creates a new storage manager
func NewManager(cfg *model.StorageConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		dir:      cfg.DownloadDir,
		files:    make(map[string]*model.DownloadedFile),
		quitChan: make(chan struct{}),
	}
}

// EnsureDownloadDir creates the configured directory. If that fails it falls
// back to "downloads" under the working directory.
func (m *Manager) EnsureDownloadDir() error {
	err := os.MkdirAll(m.cfg.DownloadDir, 0755)
	if err == nil {
		m.setDir(m.cfg.DownloadDir)
		logger.Logger.Info("Download folder ready", zap.String("path", m.cfg.DownloadDir))
		return nil
	}

	logger.Logger.Warn("Could not create download folder, using fallback",
		zap.String("path", m.cfg.DownloadDir), zap.Error(err))

	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return cwdErr
	}
	fallback := filepath.Join(cwd, "downloads")
	if err := os.MkdirAll(fallback, 0755); err != nil {
		logger.Logger.Error("Fallback download folder unavailable", zap.String("path", fallback), zap.Error(err))
		return err
	}
	m.setDir(fallback)
	logger.Logger.Info("Download folder ready", zap.String("path", fallback))
	return nil
}

func (m *Manager) setDir(dir string) {
	m.mu.Lock()
	m.dir = dir
	m.mu.Unlock()
}

// DownloadDir returns the directory in effect
func (m *Manager) DownloadDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dir
}

// OutputTemplate returns the engine output template rooted at the download dir.
func (m *Manager) OutputTemplate() string {
	return filepath.Join(m.DownloadDir(), outputPattern)
}

// CheckReadiness reports whether the download dir exists and is writable.
// The error is non-nil only when the check itself could not be performed.
func (m *Manager) CheckReadiness() (bool, error) {
	dir := m.DownloadDir()

	st, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !st.IsDir() {
		return false, nil
	}

	tmp, err := os.CreateTemp(dir, ".ready-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, nil
		}
		return false, err
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)

	return true, nil
}

// Start starts the cleanup routine when a file TTL is configured
func (m *Manager) Start() {
	if m.cfg.FileTTLSeconds <= 0 {
		logger.Logger.Debug("Storage cleanup disabled")
		return
	}
	go m.cleanupRoutine()
}

// Stop stops the cleanup routine. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.quitChan) })
}

// TrackFile registers a fetched file for TTL cleanup and returns its ID.
// Without a TTL nothing is tracked and the ID is empty.
func (m *Manager) TrackFile(url, path string) string {
	if m.cfg.FileTTLSeconds <= 0 {
		return ""
	}

	now := time.Now()
	file := &model.DownloadedFile{
		ID:        uuid.NewString(),
		Filename:  filepath.Base(path),
		FilePath:  path,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(m.cfg.FileTTLSeconds) * time.Second),
		URL:       url,
	}

	m.mu.Lock()
	m.files[file.ID] = file
	m.mu.Unlock()

	logger.Logger.Debug("File tracked", zap.String("id", file.ID), zap.String("filename", file.Filename))
	return file.ID
}

// cleanupRoutine periodically removes expired files
func (m *Manager) cleanupRoutine() {
	interval := m.cfg.CleanupInterval
	if interval <= 0 {
		interval = 3600
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	logger.Logger.Info("Storage cleanup routine started",
		zap.Int("cleanup_interval_seconds", interval),
		zap.Int("file_ttl_seconds", m.cfg.FileTTLSeconds))

	for {
		select {
		case <-m.quitChan:
			logger.Logger.Info("Storage cleanup routine stopped")
			return
		case <-ticker.C:
			m.cleanupExpiredFiles()
		}
	}
}

// cleanupExpiredFiles removes files that have expired
func (m *Manager) cleanupExpiredFiles() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// A zero TTL means files are kept forever.
	if m.cfg.FileTTLSeconds <= 0 {
		return
	}

	now := time.Now()
	deletedCount := 0
	errorCount := 0

	for id, file := range m.files {
		if !now.After(file.ExpiresAt) {
			continue
		}
		if err := os.Remove(file.FilePath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Logger.Error("Failed to remove file",
					zap.String("id", id),
					zap.String("path", file.FilePath),
					zap.Error(err))
				errorCount++
			}
		} else {
			logger.Logger.Info("File removed by cleanup",
				zap.String("id", id),
				zap.String("path", file.FilePath))
			deletedCount++
		}
		// Untrack regardless of deletion success
		delete(m.files, id)
	}

	if deletedCount > 0 || errorCount > 0 {
		logger.Logger.Info("Storage cleanup completed",
			zap.Int("deleted_count", deletedCount),
			zap.Int("error_count", errorCount),
			zap.Int("remaining_tracked_files", len(m.files)))
	}
}

// GetFile gets file info by ID
func (m *Manager) GetFile(id string) *model.DownloadedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[id]
}

// GetTrackedFilesCount returns the number of files currently being tracked
func (m *Manager) GetTrackedFilesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// ManualCleanup triggers a cleanup run immediately
func (m *Manager) ManualCleanup() {
	m.cleanupExpiredFiles()
}
