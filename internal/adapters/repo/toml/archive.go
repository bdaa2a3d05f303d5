// Package toml keeps a local TOML archive of finished interview
// transcripts. The backend stays authoritative; the archive only serves as
// an offline fallback for the review view.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

const (
	configName          = "config"
	configType          = "toml"
	transcriptsPathKey  = "transcripts.path"
	transcriptsFileMode = 0o600
	transcriptsDirMode  = 0o700
	configDir           = ".intelliview"
	transcriptsFile     = "transcripts.toml"
	tempFilePattern     = ".transcripts-*.toml.tmp"
)

type Archive struct {
	transcriptsPath string
	mu              *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TranscriptArchive = (*Archive)(nil)

func NewArchive(cfg *viper.Viper) (*Archive, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDir, transcriptsFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(transcriptsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	transcriptsPath := cfg.GetString(transcriptsPathKey)
	if transcriptsPath == "" {
		return nil, errors.New("transcripts path is empty")
	}
	transcriptsPath, err = normalizePath(transcriptsPath)
	if err != nil {
		return nil, err
	}

	return &Archive{transcriptsPath: transcriptsPath, mu: lockForPath(transcriptsPath)}, nil
}

// Save upserts by session id so re-archiving a session (for example after a
// later feedback fetch) replaces the earlier copy.
func (a *Archive) Save(ctx context.Context, transcript ports.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if transcript.Session.SessionID == "" {
		return domain.ErrMissingSessionID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := a.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(transcript)
	updated := false
	for i := range file.Transcripts {
		if file.Transcripts[i].SessionID == encoded.SessionID {
			file.Transcripts[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Transcripts = append(file.Transcripts, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return a.writeSchema(file)
}

func (a *Archive) GetBySession(ctx context.Context, sessionID string) (ports.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return ports.Transcript{}, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	file, err := a.readSchema()
	if err != nil {
		return ports.Transcript{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Transcripts {
		if entry.SessionID == sessionID {
			return fromSchema(entry), nil
		}
	}

	return ports.Transcript{}, domain.ErrTranscriptNotFound
}

func (a *Archive) List(ctx context.Context) ([]ports.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	file, err := a.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	transcripts := make([]ports.Transcript, 0, len(file.Transcripts))
	for _, entry := range file.Transcripts {
		transcripts = append(transcripts, fromSchema(entry))
	}

	return transcripts, nil
}

func (a *Archive) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(a.transcriptsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read transcripts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode transcripts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (a *Archive) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(a.transcriptsPath), transcriptsDirMode); err != nil {
		return fmt.Errorf("create transcripts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode transcripts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(a.transcriptsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp transcripts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp transcripts file: %w", err)
	}

	if err := tempFile.Chmod(transcriptsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp transcripts file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp transcripts file: %w", err)
	}

	if err := os.Rename(tempName, a.transcriptsPath); err != nil {
		return fmt.Errorf("replace transcripts file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve transcripts path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func unixOrZero(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
