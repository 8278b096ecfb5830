package session

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups careerdesk secrets in the OS keychain.
const KeyringService = "careerdesk"

const defaultAccount = "api-token"

// ErrNoSession is returned when no token has been stored.
var ErrNoSession = errors.New("no stored session")

// Store persists the bearer token in the OS keychain.
type Store struct {
	account string
}

// NewStore returns a keychain-backed store. An empty account uses the
// default entry.
func NewStore(account string) *Store {
	if strings.TrimSpace(account) == "" {
		account = defaultAccount
	}
	return &Store{account: account}
}

// Save validates token and stores it.
func (s *Store) Save(token string) (Session, error) {
	sess, err := FromToken(token)
	if err != nil {
		return Session{}, err
	}
	if err := keyring.Set(KeyringService, s.account, sess.Token); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Load returns the stored session or ErrNoSession.
func (s *Store) Load() (Session, error) {
	token, err := keyring.Get(KeyringService, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	return FromToken(token)
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	err := keyring.Delete(KeyringService, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
