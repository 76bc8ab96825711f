package cart

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// Repository persists cart state by namespace. Load returns a domain
// error with code ENOTFOUND when the namespace has no saved state.
type Repository interface {
	Load(ctx context.Context, namespace string) (*domain.CartState, error)
	Save(ctx context.Context, namespace string, state *domain.CartState) error
}

// FileRepository stores one JSON document per namespace under a base
// directory. It is the default backend when no database is configured.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) (*FileRepository, error) {
	const op = "cart.NewFileRepository"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.Internal(err, op, "failed to create cart storage directory")
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) Load(ctx context.Context, namespace string) (*domain.CartState, error) {
	const op = "cart.FileRepository.Load"

	data, err := os.ReadFile(r.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.Error{
				Code:    domain.ENOTFOUND,
				Message: "No saved cart state",
				Op:      op,
			}
		}
		return nil, domain.Internal(err, op, "failed to read cart state")
	}

	state, err := DecodeState(data)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode cart state")
	}
	return state, nil
}

func (r *FileRepository) Save(ctx context.Context, namespace string, state *domain.CartState) error {
	const op = "cart.FileRepository.Save"

	data, err := EncodeState(state)
	if err != nil {
		return domain.Internal(err, op, "failed to encode cart state")
	}

	// Write-then-rename so a crash mid-write never corrupts the record.
	path := r.path(namespace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return domain.Internal(err, op, "failed to write cart state")
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.Internal(err, op, "failed to write cart state")
	}
	return nil
}

func (r *FileRepository) path(namespace string) string {
	name := strings.NewReplacer(":", "_", "/", "_", string(filepath.Separator), "_").Replace(namespace)
	return filepath.Join(r.dir, name+".json")
}
