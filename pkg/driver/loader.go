package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/typechecker"
)

// LoadTree reads a serialized syntax tree (YAML or JSON) from disk.
func LoadTree(path string) (*ast.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tree: read %s: %w", path, err)
	}
	script, err := ast.DecodeScript(data)
	if err != nil {
		return nil, fmt.Errorf("tree: %s: %w", path, err)
	}
	return script, nil
}

// LoadTreeAtRevision reads a serialized syntax tree as it was committed at rev
// in the repository at repoDir. rev accepts anything go-git can resolve:
// hashes, branch and tag names, HEAD~n.
func LoadTreeAtRevision(repoDir, rev, path string) (*ast.Script, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, fmt.Errorf("tree: open repository %s: %w", repoDir, err)
	}
	if strings.TrimSpace(rev) == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("tree: resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("tree: commit %s: %w", hash, err)
	}
	// Paths inside a commit always use forward slashes.
	name := filepath.ToSlash(filepath.Clean(path))
	file, err := commit.File(name)
	if err != nil {
		return nil, fmt.Errorf("tree: %s at %s: %w", name, rev, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("tree: %s at %s: %w", name, rev, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("tree: %s at %s: %w", name, rev, err)
	}
	script, err := ast.DecodeScript(data)
	if err != nil {
		return nil, fmt.Errorf("tree: %s at %s: %w", name, rev, err)
	}
	return script, nil
}

// Check analyzes script against the game described by m, which may be nil.
func Check(m *Manifest, script *ast.Script, trace io.Writer) (*typechecker.Session, *typechecker.Result, error) {
	session := typechecker.New(m.Options(trace))
	res, err := session.Analyze(script)
	if err != nil {
		return nil, nil, err
	}
	return session, res, nil
}
