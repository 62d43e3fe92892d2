package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFileName   = "startpage.log"
	logFilePerm   = 0o600
	logDirPerm    = 0o755
	backupLayout  = "2006-01-02-15-04-05"
	bytesPerMiB   = 1024 * 1024
	defaultMaxMiB = 10
)

// FileConfig controls the optional log file written next to stderr.
type FileConfig struct {
	Enabled       bool
	Dir           string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
	WriteToStderr bool
}

// NewWithFile builds a logger that writes to a rotating file in fileCfg.Dir,
// and to cfg.Output or stderr when WriteToStderr is set. The returned cleanup
// closes the file. File output is always JSON.
func NewWithFile(cfg Config, fileCfg FileConfig) (zerolog.Logger, func(), error) {
	if !fileCfg.Enabled {
		if !fileCfg.WriteToStderr {
			cfg.Output = io.Discard
		}
		return New(cfg), func() {}, nil
	}

	rf, err := newRotatingFile(fileCfg)
	if err != nil {
		return New(cfg), func() {}, err
	}

	writers := []io.Writer{rf}
	if fileCfg.WriteToStderr {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		if cfg.Format == "console" {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
		}
		writers = append(writers, out)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()

	cleanup := func() {
		_ = rf.Close()
	}
	return logger, cleanup, nil
}

// rotatingFile is an io.Writer that renames the log aside once it exceeds
// maxSize and prunes old backups by age and count.
type rotatingFile struct {
	mu         sync.Mutex
	dir        string
	maxSize    int64
	maxAge     time.Duration
	maxBackups int
	compress   bool
	file       *os.File
	size       int64
	now        func() time.Time
}

func newRotatingFile(cfg FileConfig) (*rotatingFile, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("log directory is not set")
	}
	if err := os.MkdirAll(cfg.Dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	maxMiB := cfg.MaxSizeMB
	if maxMiB <= 0 {
		maxMiB = defaultMaxMiB
	}
	rf := &rotatingFile{
		dir:        cfg.Dir,
		maxSize:    int64(maxMiB) * bytesPerMiB,
		maxAge:     time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
		now:        time.Now,
	}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (r *rotatingFile) path() string {
	return filepath.Join(r.dir, logFileName)
}

func (r *rotatingFile) open() error {
	r.size = 0
	if info, err := os.Stat(r.path()); err == nil {
		r.size = info.Size()
	}
	f, err := os.OpenFile(r.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	r.file = f
	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	r.file = nil

	backup := r.path() + "." + r.now().Format(backupLayout)
	if err := os.Rename(r.path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	if r.compress {
		if err := gzipFile(backup); err == nil {
			_ = os.Remove(backup)
		}
	}

	r.prune()
	return r.open()
}

// prune removes backups older than maxAge, then the oldest beyond maxBackups.
func (r *rotatingFile) prune() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return
	}

	type backup struct {
		name    string
		modTime time.Time
	}
	var kept []backup
	now := r.now()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), logFileName+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if r.maxAge > 0 && now.Sub(info.ModTime()) > r.maxAge {
			_ = os.Remove(filepath.Join(r.dir, entry.Name()))
			continue
		}
		kept = append(kept, backup{name: entry.Name(), modTime: info.ModTime()})
	}

	if r.maxBackups <= 0 || len(kept) <= r.maxBackups {
		return
	}
	slices.SortFunc(kept, func(a, b backup) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	for _, b := range kept[:len(kept)-r.maxBackups] {
		_ = os.Remove(filepath.Join(r.dir, b.name))
	}
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func gzipFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := gzip.NewWriter(out)
	if _, err = io.Copy(zw, in); err != nil {
		return err
	}
	return zw.Close()
}
