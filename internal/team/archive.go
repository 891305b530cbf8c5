package team

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileArchiver writes run histories to timestamped files under a
// directory, one file per run.
type FileArchiver struct {
	Dir string
}

// Archive writes the history as a plain text file, one entry per line.
// The directory is created on first use.
func (a *FileArchiver) Archive(ctx context.Context, history []string) error {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	// The uuid suffix keeps runs finishing within the same second from
	// overwriting each other.
	name := fmt.Sprintf("run-%s-%s.log", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(a.Dir, name)
	content := strings.Join(history, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write archive %s: %w", path, err)
	}
	return nil
}
