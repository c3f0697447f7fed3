package service

import (
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/steven6143/stock-profit-calculator/internal/repository"
)

// ProviderService manages quote-provider credentials. The API token is
// fernet-encrypted before it reaches the database and decrypted on read;
// the key comes from configuration, never from storage.
type ProviderService struct {
	providerRepo *repository.ProviderRepository
	keys         []*fernet.Key
}

// NewProviderService creates a ProviderService using the given
// base64-encoded fernet key. An empty key disables credential storage;
// SetToken then fails and GetToken reports not-configured.
func NewProviderService(providerRepo *repository.ProviderRepository, encryptionKey string) (*ProviderService, error) {
	s := &ProviderService{providerRepo: providerRepo}

	if encryptionKey != "" {
		keys, err := fernet.DecodeKeys(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode provider encryption key: %w", err)
		}
		s.keys = keys
	}

	return s, nil
}

// SetToken encrypts and stores the provider API token.
func (s *ProviderService) SetToken(token string) error {
	if len(s.keys) == 0 {
		return fmt.Errorf("provider encryption key is not configured")
	}

	ciphertext, err := fernet.EncryptAndSign([]byte(token), s.keys[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt provider token: %w", err)
	}

	return s.providerRepo.SaveEncryptedToken(string(ciphertext))
}

// GetToken returns the decrypted provider API token, or an empty string
// when no credentials are configured — callers treat that as
// "unauthenticated provider access", which both providers allow.
func (s *ProviderService) GetToken() (string, error) {
	if len(s.keys) == 0 {
		return "", nil
	}

	ciphertext, err := s.providerRepo.GetEncryptedToken()
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}

	// TTL 0: stored tokens do not expire.
	plaintext := fernet.VerifyAndDecrypt([]byte(ciphertext), 0, s.keys)
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt provider token: key mismatch or corrupt ciphertext")
	}

	return string(plaintext), nil
}
