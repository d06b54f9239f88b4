package gitver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var testSig = &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Unix(1700000000, 0)}

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir, repo
}

func commit(t *testing.T, dir string, repo *git.Repository, content string) plumbing.Hash {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("file.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit("change "+content, &git.CommitOptions{Author: testSig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func TestDetectNoRepository(t *testing.T) {
	v, err := Detect(t.TempDir())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if v.Version != DevVersion {
		t.Fatalf("version = %q, want %q", v.Version, DevVersion)
	}
}

func TestDetectNoTags(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commit(t, dir, repo, "one")

	v, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := "0.0.0-dev+" + hash.String()[:7]
	if v.Version != want {
		t.Fatalf("version = %q, want %q", v.Version, want)
	}
	if v.IsRelease {
		t.Fatal("untagged HEAD reported as release")
	}
}

func TestDetectReleaseTag(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commit(t, dir, repo, "one")
	if _, err := repo.CreateTag("v1.2.3", hash, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}

	v, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if v.Version != "1.2.3" || !v.IsRelease || v.Tag != "v1.2.3" {
		t.Fatalf("got %+v, want release 1.2.3 from v1.2.3", v)
	}
}

func TestDetectAnnotatedTagWithMetadata(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commit(t, dir, repo, "one")
	_, err := repo.CreateTag("2.0.0+build.7", hash, &git.CreateTagOptions{Tagger: testSig, Message: "release"})
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	v, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if v.Version != "2.0.0+build.7" || !v.IsRelease {
		t.Fatalf("got %+v, want release 2.0.0+build.7", v)
	}
}

func TestDetectDevAfterTag(t *testing.T) {
	dir, repo := initRepo(t)
	first := commit(t, dir, repo, "one")
	if _, err := repo.CreateTag("v1.0.0", first, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if _, err := repo.CreateTag("not-a-version", first, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	second := commit(t, dir, repo, "two")

	v, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := "1.0.1-dev+" + second.String()[:7]
	if v.Version != want {
		t.Fatalf("version = %q, want %q", v.Version, want)
	}
	if v.IsRelease || v.Tag != "v1.0.0" {
		t.Fatalf("got %+v, want dev build after v1.0.0", v)
	}
	if v.Branch == "" {
		t.Error("branch not detected")
	}
}

func TestDetectFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commit(t, dir, repo, "one")
	if _, err := repo.CreateTag("v0.3.0", hash, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	sub := filepath.Join(dir, "service")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	v, err := Detect(sub)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !strings.HasPrefix(v.Version, "0.3.0") {
		t.Fatalf("version = %q, want 0.3.0", v.Version)
	}
}

func TestDetectIgnoresPartialVersionTags(t *testing.T) {
	dir, repo := initRepo(t)
	first := commit(t, dir, repo, "one")
	for _, name := range []string{"v1.4.2", "20240101", "1.2"} {
		if _, err := repo.CreateTag(name, first, nil); err != nil {
			t.Fatalf("tag %s: %v", name, err)
		}
	}
	second := commit(t, dir, repo, "two")
	if _, err := repo.CreateTag("v2", second, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}

	v, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	want := "1.4.3-dev+" + second.String()[:7]
	if v.Version != want || v.IsRelease || v.Tag != "v1.4.2" {
		t.Fatalf("got %+v, want dev version %s from v1.4.2", v, want)
	}
}
