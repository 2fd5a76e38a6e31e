// Package config provides configuration management with encrypted API key storage.
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// encryptionKeyEnvVar is the environment variable name for the AES encryption key.
const encryptionKeyEnvVar = "COURSEFORGE_ENCRYPTION_KEY"

// encryptedPrefix marks a value as AES-encrypted in the config file.
const encryptedPrefix = "enc:"

// Config holds all system configuration.
type Config struct {
	Transcribe TranscribeConfig `json:"transcribe"`
	Store      StoreConfig      `json:"store"`
	Intake     IntakeConfig     `json:"intake"`
}

// TranscribeConfig holds the speech-to-text service configuration.
type TranscribeConfig struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	ModelName      string `json:"model_name"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// StoreConfig holds content store configuration.
type StoreConfig struct {
	DBPath string `json:"db_path"`
}

// IntakeConfig holds batch intake limits.
type IntakeConfig struct {
	MaxFileSizeMB int `json:"max_file_size_mb"`
	Concurrency   int `json:"concurrency"`
}

// Manager handles loading and saving configuration.
type Manager struct {
	configPath    string
	config        *Config
	mu            sync.RWMutex
	encryptionKey []byte // 32-byte AES-256 key
}

// NewManager creates a Manager for the given config file path. The AES
// encryption key is read from the COURSEFORGE_ENCRYPTION_KEY environment
// variable; if unset, a key is read from or generated into ./data/encryption.key.
func NewManager(configPath string) (*Manager, error) {
	key, err := getOrCreateEncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("encryption key error: %w", err)
	}
	return &Manager{configPath: configPath, encryptionKey: key}, nil
}

// NewManagerWithKey creates a Manager with an explicit encryption key (for testing).
func NewManagerWithKey(configPath string, key []byte) (*Manager, error) {
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes for AES-256")
	}
	return &Manager{configPath: configPath, encryptionKey: key}, nil
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Transcribe: TranscribeConfig{
			Endpoint:       "https://api.openai.com/v1",
			ModelName:      "whisper-1",
			TimeoutSeconds: 600,
		},
		Store: StoreConfig{
			DBPath: "./data/courseforge.db",
		},
		Intake: IntakeConfig{
			MaxFileSizeMB: 100,
			Concurrency:   4,
		},
	}
}

// Load reads the config file from disk and decrypts the API key.
// If the file does not exist, it initializes with default values and saves.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.config = DefaultConfig()
			return m.saveLocked()
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Transcribe.APIKey, err = m.decryptIfNeeded(cfg.Transcribe.APIKey); err != nil {
		return fmt.Errorf("decrypt transcribe API key: %w", err)
	}

	applyDefaults(&cfg)
	m.config = &cfg
	return nil
}

// Save writes the current config to disk with the API key encrypted.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveLocked()
}

// saveLocked writes config to disk. Caller must hold at least a read lock.
func (m *Manager) saveLocked() error {
	if m.config == nil {
		return errors.New("no config loaded")
	}

	out := *m.config
	out.Transcribe.APIKey = m.encryptIfNeeded(m.config.Transcribe.APIKey)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil
	}
	c := *m.config
	return &c
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Transcribe.Endpoint == "" {
		cfg.Transcribe.Endpoint = def.Transcribe.Endpoint
	}
	if cfg.Transcribe.ModelName == "" {
		cfg.Transcribe.ModelName = def.Transcribe.ModelName
	}
	if cfg.Transcribe.TimeoutSeconds <= 0 {
		cfg.Transcribe.TimeoutSeconds = def.Transcribe.TimeoutSeconds
	}
	if cfg.Store.DBPath == "" {
		cfg.Store.DBPath = def.Store.DBPath
	}
	if cfg.Intake.MaxFileSizeMB <= 0 {
		cfg.Intake.MaxFileSizeMB = def.Intake.MaxFileSizeMB
	}
	if cfg.Intake.Concurrency <= 0 {
		cfg.Intake.Concurrency = def.Intake.Concurrency
	}
}

// --- AES-GCM encryption helpers ---

// encrypt encrypts plaintext using AES-256-GCM.
func (m *Manager) encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	block, err := aes.NewCipher(m.encryptionKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// decrypt decrypts AES-256-GCM encrypted hex string.
func (m *Manager) decrypt(ciphertextHex string) (string, error) {
	if ciphertextHex == "" {
		return "", nil
	}
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("hex decode: %w", err)
	}
	block, err := aes.NewCipher(m.encryptionKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// encryptIfNeeded encrypts a value and adds the "enc:" prefix.
// Empty strings are returned as-is.
func (m *Manager) encryptIfNeeded(value string) string {
	if value == "" {
		return ""
	}
	encrypted, err := m.encrypt(value)
	if err != nil {
		return value
	}
	return encryptedPrefix + encrypted
}

// decryptIfNeeded decrypts a value if it has the "enc:" prefix.
func (m *Manager) decryptIfNeeded(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if strings.HasPrefix(value, encryptedPrefix) {
		return m.decrypt(value[len(encryptedPrefix):])
	}
	// Not encrypted (e.g., manually edited config)
	return value, nil
}

// --- Encryption key management ---

func getOrCreateEncryptionKey() ([]byte, error) {
	keyHex := os.Getenv(encryptionKeyEnvVar)
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
		}
		return key, nil
	}

	keyFile := "./data/encryption.key"
	if data, err := os.ReadFile(keyFile); err == nil {
		keyHex = strings.TrimSpace(string(data))
		if key, err := hex.DecodeString(keyHex); err == nil && len(key) == 32 {
			return key, nil
		}
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate encryption key: %w", err)
	}
	keyHex = hex.EncodeToString(key)
	os.MkdirAll("./data", 0755)
	if err := os.WriteFile(keyFile, []byte(keyHex+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("save encryption key: %w", err)
	}
	return key, nil
}
