// Package secretstore bridges password persistence to the OS secret store,
// per SPEC_FULL.md §6.3. It is never on rainfrog's fatal startup path: a
// keyring failure degrades to "prompt every time," logged, not fatal.
package secretstore

import (
	"fmt"

	"github.com/99designs/keyring"
	"github.com/sirupsen/logrus"
)

const serviceName = "rainfrog"

// Bridge wraps a keyring.Keyring, already opened against the OS-native
// backend keyring auto-selects (Keychain, Secret Service, wincred, ...).
type Bridge struct {
	ring keyring.Keyring
	log  *logrus.Entry
}

func Open(log *logrus.Logger) (*Bridge, error) {
	if log == nil {
		log = logrus.New()
	}
	ring, err := keyring.Open(keyring.Config{ServiceName: serviceName})
	if err != nil {
		return nil, fmt.Errorf("secretstore: open keyring: %w", err)
	}
	return &Bridge{ring: ring, log: log.WithField("component", "secretstore")}, nil
}

// key builds the "rainfrog:<connection_name>-<username>" format spec.md
// §6 specifies.
func key(connectionName, username string) string {
	return fmt.Sprintf("rainfrog:%s-%s", connectionName, username)
}

// Load returns the stored password, if any. A miss is not an error: the
// caller falls back to an interactive prompt.
func (b *Bridge) Load(connectionName, username string) (string, bool) {
	item, err := b.ring.Get(key(connectionName, username))
	if err != nil {
		b.log.WithError(err).WithField("connection", connectionName).Debug("secretstore: no stored password")
		return "", false
	}
	return string(item.Data), true
}

// Save persists password. Failures are logged and swallowed — the degraded
// behavior is simply prompting again next time, never a fatal error.
func (b *Bridge) Save(connectionName, username, password string) {
	err := b.ring.Set(keyring.Item{
		Key:  key(connectionName, username),
		Data: []byte(password),
	})
	if err != nil {
		b.log.WithError(err).WithField("connection", connectionName).Warn("secretstore: could not persist password")
	}
}

func (b *Bridge) Delete(connectionName, username string) {
	if err := b.ring.Remove(key(connectionName, username)); err != nil {
		b.log.WithError(err).WithField("connection", connectionName).Debug("secretstore: nothing to remove")
	}
}
