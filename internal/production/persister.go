// Package production provides production integrations: persistence, event publishing, visualization.
// Implements core interfaces using stdlib where possible.

package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/sthreads/internal/core"
)

// JSONPersister is a file-based persister writing one <schedulerID>.json
// file per scheduler.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(p.dir, snapshot.SchedulerID, ".json", data)
}

func (p *JSONPersister) Load(ctx context.Context, schedulerID string) (core.Snapshot, error) {
	data, err := readSnapshot(p.dir, schedulerID, ".json")
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.SchedulerID = schedulerID
	return snapshot, nil
}

// Path returns the file a snapshot of schedulerID is written to.
func (p *JSONPersister) Path(schedulerID string) string {
	return filepath.Join(p.dir, schedulerID+".json")
}

// YAMLPersister is a file-based persister using YAML serialization.
// The embedded config is validated on load.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(p.dir, snapshot.SchedulerID, ".yaml", data)
}

func (p *YAMLPersister) Load(ctx context.Context, schedulerID string) (core.Snapshot, error) {
	data, err := readSnapshot(p.dir, schedulerID, ".yaml")
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.SchedulerID = schedulerID
	if err := snapshot.Config.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("config validation after load: %w", err)
	}
	return snapshot, nil
}

// Path returns the file a snapshot of schedulerID is written to.
func (p *YAMLPersister) Path(schedulerID string) string {
	return filepath.Join(p.dir, schedulerID+".yaml")
}

// LoadFile decodes a snapshot file by extension (.json, .yaml or .yml).
func LoadFile(path string) (core.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	var snapshot core.Snapshot
	switch ext := filepath.Ext(path); ext {
	case ".json":
		err = json.Unmarshal(data, &snapshot)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snapshot)
	default:
		return core.Snapshot{}, fmt.Errorf("unknown snapshot format %q", ext)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return snapshot, nil
}

func writeSnapshot(dir, id, ext string, data []byte) error {
	if id == "" {
		return errors.New("snapshot has no scheduler id")
	}
	fn := filepath.Join(dir, id+ext)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(dir, id, ext string) ([]byte, error) {
	fn := filepath.Join(dir, id+ext)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("scheduler %q: %w", id, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
