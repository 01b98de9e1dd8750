package opener

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"

	"autocontract/internal/ports"
)

type FileOpener struct{}

func NewFileOpener() *FileOpener { return &FileOpener{} }

func (FileOpener) Open(ctx context.Context, path string) (io.ReadCloser, ports.Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, ports.Meta{}, err
	}
	log.Printf("[OPENER][FILE][START] path=%q", path)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[OPENER][FILE][ERR] open: %v", err)
		return nil, ports.Meta{}, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ports.Meta{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, ports.Meta{}, fmt.Errorf("%s is a directory", path)
	}
	return f, ports.Meta{
		Source:      "file",
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        st.Size(),
	}, nil
}
