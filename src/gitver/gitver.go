// Package gitver derives the project version from git tags. It reads the
// repository through go-git, so no git binary is needed.
package gitver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DevVersion is reported when no repository is found.
const DevVersion = "0.0.0-dev"

// VersionInfo holds resolved version metadata from git.
type VersionInfo struct {
	Version   string // "1.2.3", "1.2.3+build.7" or "1.2.4-dev+abc1234"
	Tag       string // tag the version was taken from, empty without tags
	SHA       string // short HEAD hash
	Branch    string
	IsRelease bool // HEAD carries the semver tag
}

// Detect resolves version info for the repository containing dir.
//
// If HEAD carries a semver tag that version is a release. Otherwise the
// highest semver tag gets its patch bumped and "-dev+<sha>" appended. Without
// a repository DevVersion is returned.
func Detect(dir string) (*VersionInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return &VersionInfo{Version: DevVersion}, nil
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// no commits yet
			return &VersionInfo{Version: DevVersion}, nil
		}
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}

	v := &VersionInfo{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		v.Branch = head.Name().Short()
	}

	tags, err := semverTags(repo)
	if err != nil {
		return nil, err
	}

	var release, highest *semver.Version
	for _, t := range tags {
		if t.commit == head.Hash() && (release == nil || t.version.GreaterThan(release)) {
			release = t.version
			v.Tag = t.name
		}
		if highest == nil || t.version.GreaterThan(highest) {
			highest = t.version
			if release == nil {
				v.Tag = t.name
			}
		}
	}
	if release != nil {
		v.Version = release.String()
		v.IsRelease = true
		return v, nil
	}

	// a prerelease tag is not bumped: 1.3.0-rc.1 continues as 1.3.0-dev
	base := "0.0.0"
	if highest != nil {
		base = highest.IncPatch().String()
	}
	v.Version = fmt.Sprintf("%s-dev+%s", base, v.SHA)
	return v, nil
}

type semverTag struct {
	name    string
	version *semver.Version
	commit  plumbing.Hash
}

// semverTags lists tags that are strict semver, optionally prefixed with
// "v", resolving annotated tags to their commit.
func semverTags(repo *git.Repository) ([]semverTag, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []semverTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		// only full MAJOR.MINOR.PATCH tags; "v2" or "20240101" are not versions
		sv, err := semver.StrictNewVersion(strings.TrimPrefix(name, "v"))
		if err != nil {
			return nil
		}

		commit := ref.Hash()
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			c, err := obj.Commit()
			if err != nil {
				return nil
			}
			commit = c.Hash
		}

		tags = append(tags, semverTag{name: name, version: sv, commit: commit})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return tags, nil
}
