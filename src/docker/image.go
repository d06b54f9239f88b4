package docker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"
)

// LatestTag is pushed alongside the version tag.
const LatestTag = "latest"

const maxTagLength = 128

var invalidTagChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ImageTag turns a project version into a valid image tag. Characters
// outside [A-Za-z0-9_.-] become '_', so semver build metadata "1.2.3+abc"
// is tagged "1.2.3_abc". A leading '.' or '-' is replaced as well.
func ImageTag(version string) string {
	tag := invalidTagChars.ReplaceAllString(version, "_")
	if strings.HasPrefix(tag, ".") || strings.HasPrefix(tag, "-") {
		tag = "_" + tag[1:]
	}
	if len(tag) > maxTagLength {
		tag = tag[:maxTagLength]
	}
	return tag
}

// ImageBase joins repository, group and name into
// "<repository>/<group>/<name>". An empty group is left out.
func ImageBase(repository, group, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.TrimSuffix(repository, "/"), group, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// Image is a validated image name with its tags.
type Image struct {
	Base string
	Tags []string
}

// NewImage validates base and the tags derived from version.
func NewImage(base, version string) (*Image, error) {
	named, err := reference.ParseNormalizedNamed(base)
	if err != nil {
		return nil, fmt.Errorf("invalid image name %q: %w", base, err)
	}
	if !reference.IsNameOnly(named) {
		return nil, fmt.Errorf("invalid image name %q: must not carry a tag or digest", base)
	}

	tag := ImageTag(version)
	if tag == "" {
		return nil, fmt.Errorf("image %s: empty version", base)
	}

	img := &Image{Base: base}
	for _, t := range []string{tag, LatestTag} {
		if len(img.Tags) > 0 && img.Tags[0] == t {
			continue
		}
		if _, err := reference.WithTag(named, t); err != nil {
			return nil, fmt.Errorf("invalid tag %q for %s: %w", t, base, err)
		}
		img.Tags = append(img.Tags, t)
	}
	return img, nil
}

// Refs returns "<base>:<tag>" for every tag.
func (i *Image) Refs() []string {
	refs := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		refs = append(refs, i.Base+":"+t)
	}
	return refs
}
