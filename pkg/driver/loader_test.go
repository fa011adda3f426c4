package driver

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/typechecker"
)

const roomTree = `
type: Script
body:
  - type: Assignment
    target: {type: Identifier, name: visits}
    value: {type: IntegerLiteral, value: 1}
  - type: ExpressionStatement
    line: 2
    column: 1
    expression:
      type: FunctionCall
      callee: {type: Identifier, name: msg}
      arguments:
        - {type: Identifier, name: visits}
`

const roomTreeV2 = `
type: Script
body:
  - type: ExpressionStatement
    expression:
      type: FunctionCall
      callee: {type: Identifier, name: msg}
      arguments:
        - {type: Identifier, name: visits, line: 1, column: 5}
  - type: Assignment
    target: {type: Identifier, name: visits}
    value: {type: IntegerLiteral, value: 1}
`

func TestLoadTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.yml")
	if err := os.WriteFile(path, []byte(roomTree), 0o600); err != nil {
		t.Fatalf("write tree: %v", err)
	}
	script, err := LoadTree(path)
	if err != nil {
		t.Fatalf("LoadTree returned error: %v", err)
	}
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}

	if _, err := LoadTree(filepath.Join(dir, "missing.yml")); err == nil || !strings.Contains(err.Error(), "tree: read") {
		t.Fatalf("expected read error, got %v", err)
	}
	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("type: Assignment\n"), 0o600); err != nil {
		t.Fatalf("write tree: %v", err)
	}
	if _, err := LoadTree(bad); err == nil || !strings.Contains(err.Error(), "expected Script") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLoadTreeAtRevision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scripts/room.yml", roomTree)
	first := commitAll(t, dir, "first draft")
	writeFile(t, dir, "scripts/room.yml", roomTreeV2)
	commitAll(t, dir, "reorder")

	old, err := LoadTreeAtRevision(dir, first.String(), "scripts/room.yml")
	if err != nil {
		t.Fatalf("LoadTreeAtRevision(first) returned error: %v", err)
	}
	if _, ok := old.Body[0].(*ast.Assignment); !ok {
		t.Fatalf("first revision should start with an assignment, got %T", old.Body[0])
	}

	head, err := LoadTreeAtRevision(dir, "", "scripts/room.yml")
	if err != nil {
		t.Fatalf("LoadTreeAtRevision(HEAD) returned error: %v", err)
	}
	if _, ok := head.Body[0].(*ast.ExpressionStatement); !ok {
		t.Fatalf("HEAD should start with a call, got %T", head.Body[0])
	}

	prev, err := LoadTreeAtRevision(dir, "HEAD~1", "scripts/room.yml")
	if err != nil {
		t.Fatalf("LoadTreeAtRevision(HEAD~1) returned error: %v", err)
	}
	if len(prev.Body) != 2 {
		t.Fatalf("HEAD~1 should have 2 statements, got %d", len(prev.Body))
	}

	if _, err := LoadTreeAtRevision(dir, "HEAD", "scripts/missing.yml"); err == nil {
		t.Fatal("expected error for a file absent from the commit")
	}
	if _, err := LoadTreeAtRevision(dir, "no-such-branch", "scripts/room.yml"); err == nil || !strings.Contains(err.Error(), "resolve revision") {
		t.Fatalf("expected revision error, got %v", err)
	}
	if _, err := LoadTreeAtRevision(t.TempDir(), "HEAD", "scripts/room.yml"); err == nil || !strings.Contains(err.Error(), "open repository") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestCheckRevisions(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(castleManifest), "castle.yml")
	if err != nil {
		t.Fatalf("ParseManifest returned error: %v", err)
	}
	dir := t.TempDir()
	writeFile(t, dir, "room.yml", roomTree)
	commitAll(t, dir, "clean")
	writeFile(t, dir, "room.yml", roomTreeV2)
	commitAll(t, dir, "use before definition")

	clean, err := LoadTreeAtRevision(dir, "HEAD~1", "room.yml")
	if err != nil {
		t.Fatalf("load clean revision: %v", err)
	}
	var trace bytes.Buffer
	session, res, err := Check(manifest, clean, &trace)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Diagnostics) != 0 || !session.Clean() {
		t.Fatalf("expected no diagnostics, got %v", res.Diagnostics)
	}
	if !strings.Contains(trace.String(), "declare visits: Integer") {
		t.Fatalf("trace missing declaration: %q", trace.String())
	}

	broken, err := LoadTreeAtRevision(dir, "HEAD", "room.yml")
	if err != nil {
		t.Fatalf("load broken revision: %v", err)
	}
	_, res, err = Check(manifest, broken, nil)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", res.Diagnostics)
	}
	diag := res.Diagnostics[0]
	if diag.Kind != typechecker.UnresolvedVariable {
		t.Fatalf("diagnostic kind = %s, want %s", diag.Kind, typechecker.UnresolvedVariable)
	}
	if got := diag.Error(); !strings.HasPrefix(got, "1:5: ") {
		t.Fatalf("diagnostic should carry the identifier position, got %q", got)
	}
}

func TestCheckStrictFunctions(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(castleManifest), "castle.yml")
	if err != nil {
		t.Fatalf("ParseManifest returned error: %v", err)
	}
	script := ast.Prog(
		ast.Assign("n", ast.Call("GetRandomInt", ast.Int(1), ast.Int(6))),
		ast.Expr(ast.Call("Teleport", ast.ID("player"))),
		ast.Assign("s", ast.Member(ast.ID("player"), "score")),
	)
	session, res, err := Check(manifest, script, nil)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != typechecker.UndefinedFunction {
		t.Fatalf("expected a single undefined function, got %v", res.Diagnostics)
	}
	if v := res.Root.Latest().Lookup("s"); v == nil || v.Type != typechecker.Integer {
		t.Fatalf("player.score should type as Integer, got %#v", v)
	}
	if v := session.ResolveVariable("n", script.Body[2]); v == nil || v.Type != typechecker.Integer {
		t.Fatalf("n should type as Integer, got %#v", v)
	}

	_, _, err = Check(nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for a nil script")
	}
}

func writeFile(t *testing.T, dir, rel, contents string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// commitAll stages every file under dir, initializing the repository on first
// use, and returns the new commit hash.
func commitAll(t *testing.T, dir, message string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "QuestScript",
			Email: "questscript@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}
