package host

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/retrohandheld/minarch/internal/archive"
	"github.com/retrohandheld/minarch/internal/core"
)

// Game is an opened title (spec.md §3): original path, display name,
// optional playlist path (multi-disc), optional extraction scratch path,
// optional in-memory ROM blob, and an open flag. Exclusively owned by the
// host; created by OpenGame, destroyed by Close.
type Game struct {
	OriginalPath string
	DisplayName  string
	PlaylistPath string
	ScratchDir   string
	Data         []byte
	open         bool
}

// Close removes any extraction scratch directory. Safe to call on an
// already-closed or nil Game.
func (g *Game) Close() error {
	if g == nil || !g.open {
		return nil
	}
	g.open = false
	if g.ScratchDir == "" {
		return nil
	}
	return os.RemoveAll(g.ScratchDir)
}

// OpenGame resolves path — which may be a playlist, an archive, or a
// direct ROM image — against the core's declared extensions, isolates an
// unvetted core's first load through guard (nil skips isolation, for
// cores already probed earlier in the session), and loads the content.
// Every error is wrapped as a GameOpenError, spec.md §7's "game open
// failure" fatal class, except guard's own probe failure which is
// already a CoreLoadError-shaped ErrLoadCrashed — it is returned
// unwrapped so the caller can tell the two fatal classes apart.
func OpenGame(ctx *Context, guard *core.LoadGuard, corePath, path, scratchRoot string) (*Game, error) {
	info := ctx.CoreHandle.SystemInfo()
	exts := splitExtensions(info.ValidExtensions)

	game := &Game{OriginalPath: path, DisplayName: baseNameNoExt(path), open: true}
	resolvedPath := path

	if strings.EqualFold(filepath.Ext(path), ".m3u") {
		game.PlaylistPath = path
		first, err := firstPlaylistEntry(path)
		if err != nil {
			return nil, &GameOpenError{Err: err}
		}
		resolvedPath = first
	}

	if !info.BlockExtract {
		scratch := filepath.Join(scratchRoot, game.DisplayName)
		extracted, err := archive.Extract(resolvedPath, scratch, exts)
		if err != nil {
			return nil, &GameOpenError{Err: err}
		}
		if extracted != resolvedPath {
			game.ScratchDir = scratch
		}
		resolvedPath = extracted
	}

	gi := &core.GameInfo{Path: resolvedPath}
	if !info.NeedFullPath {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			_ = game.Close()
			return nil, &GameOpenError{Err: err}
		}
		gi.Data = data
		game.Data = data
	}

	if guard != nil {
		if err := guard.Probe(corePath, resolvedPath); err != nil {
			_ = game.Close()
			return nil, err
		}
	}

	if err := ctx.CoreHandle.LoadGame(gi); err != nil {
		_ = game.Close()
		return nil, &GameOpenError{Err: err}
	}
	return game, nil
}

func baseNameNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func splitExtensions(pipeDelimited string) []string {
	if pipeDelimited == "" {
		return nil
	}
	parts := strings.Split(pipeDelimited, "|")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		exts = append(exts, "."+strings.ToLower(p))
	}
	return exts
}

func firstPlaylistEntry(m3uPath string) (string, error) {
	data, err := os.ReadFile(m3uPath)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(m3uPath)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		return line, nil
	}
	return "", ErrEmptyPlaylist
}
