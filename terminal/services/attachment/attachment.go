package attachment

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	// Preview derivation accepts the image formats the clerk scanner emits.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lojascometa/contract-terminal/common"
	clientrepo "github.com/lojascometa/contract-terminal/terminal/repositories/client"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

// Preview is a scoped resource backed by a file in the preview folder. It
// must be released when no longer displayed.
type Preview struct {
	Path string
}

func (p *Preview) Release() {
	_ = os.Remove(p.Path)
}

// Collector accumulates supporting documents in memory, in add order.
// Nothing here is persisted: losing the page instance loses the files, and
// only the confirmation flag survives in the session store.
type Collector struct {
	mu         sync.Mutex
	files      []types.Attachment
	previews   []*Preview
	previewDir string
	repo       clientrepo.ClientRepo
	logger     *slog.Logger
}

func NewCollector(repo clientrepo.ClientRepo, previewDir string) *Collector {
	return &Collector{
		previewDir: previewDir,
		repo:       repo,
		logger:     common.NewLogger("attachment"),
	}
}

// AddFiles appends the given files in order and derives one preview per
// file. A call with zero files is a no-op. The call is atomic: one
// undecodable file rejects the whole call and leaves the set untouched.
func (c *Collector) AddFiles(files ...types.Attachment) error {
	if len(files) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range files {
		if len(files[i].Data) == 0 {
			return &types.ValidationError{Message: fmt.Sprintf("Arquivo vazio: %s", files[i].FileName)}
		}
		if _, _, err := image.Decode(bytes.NewReader(files[i].Data)); err != nil {
			return &types.ValidationError{Message: fmt.Sprintf("Arquivo inválido: %s", files[i].FileName)}
		}
		if files[i].MimeType == "" {
			files[i].MimeType = http.DetectContentType(files[i].Data)
		}
	}

	added := make([]*Preview, 0, len(files))
	for _, file := range files {
		preview, err := c.derivePreview(file)
		if err != nil {
			for _, p := range added {
				p.Release()
			}
			return err
		}
		added = append(added, preview)
	}

	c.files = append(c.files, files...)
	c.previews = append(c.previews, added...)

	c.logger.Debug("attachments added", "count", len(files), "total", len(c.files))
	return nil
}

func (c *Collector) derivePreview(file types.Attachment) (*Preview, error) {
	f, err := os.CreateTemp(c.previewDir, "preview_*"+filepath.Ext(file.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create preview for %s: %w", file.FileName, err)
	}
	defer f.Close()

	if _, err := f.Write(file.Data); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write preview for %s: %w", file.FileName, err)
	}

	return &Preview{Path: f.Name()}, nil
}

// Confirm sets the persisted confirmation flag for the client when the set
// is non-empty. Merely adding files never sets the flag; an empty set makes
// this a no-op, matching the step's "back and confirm" action.
func (c *Collector) Confirm(clientID string) error {
	c.mu.Lock()
	empty := len(c.files) == 0
	c.mu.Unlock()

	if empty {
		return nil
	}
	return c.repo.SetAttachmentsConfirmed(clientID)
}

// Files returns the attachments in add order.
func (c *Collector) Files() []types.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]types.Attachment, len(c.files))
	copy(files, c.files)
	return files
}

// Previews returns the preview paths, indexed by attachment position.
func (c *Collector) Previews() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths := make([]string, len(c.previews))
	for i, p := range c.previews {
		paths[i] = p.Path
	}
	return paths
}

func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// Reset drops the in-memory set and releases every preview. Called when a
// new client supersedes the current set and on teardown.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.previews {
		p.Release()
	}
	c.files = nil
	c.previews = nil
}
