package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"autocontract/internal/ports"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("template not found")

type Renderer struct {
	Opener ports.FileOpener
}

func NewRenderer(opener ports.FileOpener) *Renderer {
	return &Renderer{Opener: opener}
}

// Render fills template with values and writes the result to output. The
// document is written to a temporary file next to output and renamed into
// place, so a failed call leaves no file under the output name.
func (r *Renderer) Render(ctx context.Context, template, output string, values map[string]string) error {
	t0 := time.Now()
	log.Printf("[RENDER][START] template=%q output=%q keys=%d", template, output, len(values))

	src, err := r.load(ctx, template)
	if err != nil {
		log.Printf("[RENDER][ERR] load template: %v", err)
		return err
	}

	if keys, err := Scan(src); err == nil {
		for _, k := range keys {
			if _, ok := values[k]; !ok {
				log.Printf("[RENDER][WARN] template %q has placeholder {%s} with no value", template, k)
			}
		}
	}

	doc, err := Fill(src, values)
	if err != nil {
		log.Printf("[RENDER][ERR] fill: %v", err)
		return err
	}

	if err := WriteAtomic(output, doc); err != nil {
		log.Printf("[RENDER][ERR] save: %v", err)
		return err
	}

	log.Printf("[RENDER][DONE] output=%q size=%d duration=%s", output, len(doc), time.Since(t0))
	return nil
}

func (r *Renderer) load(ctx context.Context, template string) ([]byte, error) {
	if r.Opener == nil {
		return nil, errors.New("template opener not configured")
	}
	rc, meta, err := r.Opener.Open(ctx, template)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, template)
		}
		return nil, fmt.Errorf("open template %s: %w", template, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", template, err)
	}
	log.Printf("[RENDER] template source=%s size=%d", meta.Source, len(b))
	return b, nil
}

// WriteAtomic writes data next to path and renames it into place, so readers
// never see a half-written document.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
