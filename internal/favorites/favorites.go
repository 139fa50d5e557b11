// Package favorites is the file-backed Store named in SPEC_FULL.md §4.8:
// one "<name>.sql" file per favorite under a configured directory.
package favorites

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rainfrog/rainfrog/internal/model"
)

// Store is the favorites persistence contract.
type Store interface {
	List() ([]model.Favorite, error)
	Save(f model.Favorite) error
	Delete(name string) error
}

// fileStore is the only Store implementation: a directory of "<name>.sql"
// files, scanned fresh on every List call (never cached) so the in-memory
// set always reflects the current disk state, per spec.md §3.
type fileStore struct {
	dir string
	log *logrus.Entry
}

func New(dir string, log *logrus.Logger) Store {
	if log == nil {
		log = logrus.New()
	}
	return &fileStore{dir: dir, log: log.WithField("component", "favorites")}
}

func (s *fileStore) List() ([]model.Favorite, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("favorites: read dir: %w", err)
	}

	var favs []model.Favorite
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".sql")
		content, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.log.WithError(err).WithField("file", e.Name()).Warn("favorites: skipping unreadable file")
			continue
		}
		favs = append(favs, model.Favorite{
			Name:       name,
			QueryLines: strings.Split(string(content), "\n"),
		})
	}
	return favs, nil
}

// Save re-validates the name defensively even though the NameFavorite
// popup already filters keystrokes — a favorite could in principle arrive
// here from another caller (a future import command, a test) without
// having passed through the popup.
func (s *fileStore) Save(f model.Favorite) error {
	if !isValidName(f.Name) {
		return fmt.Errorf("favorites: invalid name %q", f.Name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.WithError(err).Error("favorites: could not create favorites directory")
		return err
	}
	path := filepath.Join(s.dir, f.Name+".sql")
	content := strings.Join(f.QueryLines, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		s.log.WithError(err).WithField("name", f.Name).Error("favorites: write failed")
		return err
	}
	return nil
}

func (s *fileStore) Delete(name string) error {
	path := filepath.Join(s.dir, name+".sql")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).WithField("name", name).Error("favorites: delete failed")
		return err
	}
	return nil
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
