package project

import (
	"path/filepath"
)

// DirName is the per-project directory holding config, data and logs.
const DirName = ".tasktree"

// Detect implements the Detector interface.
func (d *detector) Detect(startPath string) (*Context, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	for dir := absPath; ; dir = filepath.Dir(dir) {
		if d.isDir(filepath.Join(dir, DirName)) {
			ctx := &Context{RootPath: dir, MarkerType: MarkerTaskTree}
			ctx.GitRoot = d.gitRoot(dir)
			return ctx, nil
		}
		if d.isDir(filepath.Join(dir, ".git")) {
			return &Context{RootPath: dir, MarkerType: MarkerGit, GitRoot: dir}, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return &Context{RootPath: absPath, MarkerType: MarkerNone}, nil
}

func (d *detector) gitRoot(from string) string {
	for dir := from; ; dir = filepath.Dir(dir) {
		if d.isDir(filepath.Join(dir, ".git")) {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

func (d *detector) isDir(path string) bool {
	info, err := d.fs.Stat(path)
	return err == nil && info.IsDir()
}
