package salesbudget

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FileRuleStore persists discount rule overrides as a JSON file.
type FileRuleStore struct {
	path string
}

// NewFileRuleStore creates a store writing to the given path.
func NewFileRuleStore(path string) *FileRuleStore {
	return &FileRuleStore{path: path}
}

// Load reads the persisted overrides. A missing file means nothing has been
// persisted yet and is not an error.
func (s *FileRuleStore) Load(ctx context.Context) ([]RuleOverride, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read rule override file")
	}

	var overrides []RuleOverride
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal rule overrides")
	}
	return overrides, nil
}

// Save replaces the persisted overrides. The file is written to a temporary
// sibling first and renamed into place so readers never see a partial write.
func (s *FileRuleStore) Save(ctx context.Context, overrides []RuleOverride) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create rule override directory")
	}

	data, err := json.MarshalIndent(overrides, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal rule overrides")
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write rule override file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to replace rule override file")
	}
	return nil
}

// Clear removes the persisted overrides.
func (s *FileRuleStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove rule override file")
	}
	return nil
}
