package executor

import (
	"os"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/model"
)

// removeFile implements RemoveFile(meta): removes
// output_dir/meta.filename if present, a no-op otherwise.
func (e *Executor) removeFile(meta model.FileMeta) (model.Result, error) {
	path := filepath.Join(e.OutputDir, meta.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return model.Continue, err
	}
	return model.Continue, nil
}
