// Package toml persists the current session as a single TOML file under the
// user's CRM config directory. The file is replaced wholesale on every save,
// so the access and refresh tokens are always written as one pair.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	sessionPathKey  = "session.path"
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	configDirName   = ".crm"
	sessionFileName = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

type Store struct {
	sessionPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TokenStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, sessionFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(sessionPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath, err = normalizeSessionPath(sessionPath)
	if err != nil {
		return nil, err
	}

	return &Store{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Session{}, err
	}

	session := fromSchema(file.Session)
	if !session.HasTokens() {
		return domain.Session{}, domain.ErrNoSession
	}

	return session, nil
}

func (s *Store) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !session.HasTokens() {
		return errors.New("refusing to save a session without a full token pair")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSchema(fileSchema{Version: currentSchemaVersion, Session: toSchema(session)})
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.sessionPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session file: %w", err)
	}

	return nil
}

// writeSchema replaces the session file atomically: the encoded session lands
// in a temp file first and moves into place with a rename, so a crash mid-write
// leaves the previous pair intact.
func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.sessionPath), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.sessionPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
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
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.sessionPath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.sessionPath, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}

	return nil
}

func normalizeSessionPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
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
