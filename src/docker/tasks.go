package docker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/staticnoiselog/ciplugin/src/config"
	"github.com/staticnoiselog/ciplugin/src/pipeline"
)

// Task names and layout of the image pipeline.
const (
	TaskGroup = "CI Plugin"

	PrepareContextTask = "dockerPrepareContext"
	BuildImageTask     = "dockerBuildImage"
	PushImageTask      = "dockerPushImage"
	RemoveImageTask    = "dockerRemoveImage"

	// Subdirectory holds the Dockerfile in the project and the build context
	// below the build directory.
	Subdirectory    = "docker"
	BuildDirectory  = "build"
	ImageIDFilename = "imageid.txt"
)

// Pipeline runs the docker steps for one project.
type Pipeline struct {
	Resolver   *config.Resolver
	Project    config.ProjectConfig
	ProjectDir string
	Runner     Runner
	Fs         afero.Fs
	Log        zerolog.Logger
	DryRun     bool
}

// WorkingDir is where the build context is assembled and docker build runs.
func (p *Pipeline) WorkingDir() string {
	return filepath.Join(p.ProjectDir, BuildDirectory, Subdirectory)
}

// Image returns the validated image name and tags for the project.
func (p *Pipeline) Image() (*Image, error) {
	var result *multierror.Error
	repo := p.Resolver.Value(config.DockerRepository)
	if repo == "" {
		result = multierror.Append(result, fmt.Errorf("%s is empty", config.DockerRepository.Name()))
	}
	if p.Project.Name == "" {
		result = multierror.Append(result, errors.New("project name is empty"))
	}
	if p.Project.Version == "" {
		result = multierror.Append(result, errors.New("project version is empty"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return NewImage(ImageBase(repo, p.Project.Group, p.Project.Name), p.Project.Version)
}

// Register adds the four docker tasks to g.
func (p *Pipeline) Register(g *pipeline.Graph) error {
	tasks := []pipeline.Task{
		{
			Name:        PrepareContextTask,
			Description: fmt.Sprintf("Copies %s and the artifact directory to %s where the Docker image is built.", Subdirectory, filepath.Join(BuildDirectory, Subdirectory)),
			Action:      func(ctx context.Context) error { return p.PrepareContext(ctx) },
		},
		{
			Name:        BuildImageTask,
			Description: "Issues a 'docker build' command for the artifact created by the project.",
			DependsOn:   []string{PrepareContextTask},
			Action:      func(ctx context.Context) error { _, err := p.BuildImage(ctx); return err },
		},
		{
			Name:        PushImageTask,
			Description: fmt.Sprintf("Issues a 'docker push --all-tags' command for the Docker image created with the %s task.", BuildImageTask),
			DependsOn:   []string{BuildImageTask},
			Action:      func(ctx context.Context) error { return p.PushImage(ctx) },
		},
		{
			Name:        RemoveImageTask,
			Description: fmt.Sprintf("Issues a 'docker rmi' command for the Docker image created with the %s task.", BuildImageTask),
			DependsOn:   []string{BuildImageTask},
			Action:      func(ctx context.Context) error { return p.RemoveImage(ctx) },
		},
	}
	for _, t := range tasks {
		t.Group = TaskGroup
		if err := g.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// PrepareContext copies the project's docker directory and the artifact
// source directory into the working directory.
func (p *Pipeline) PrepareContext(ctx context.Context) error {
	artifactDir := p.Resolver.Value(config.DockerArtifactSourceDirectory)
	sources := []string{filepath.Join(p.ProjectDir, Subdirectory)}
	if artifactDir != "" {
		if !filepath.IsAbs(artifactDir) {
			artifactDir = filepath.Join(p.ProjectDir, artifactDir)
		}
		sources = append(sources, artifactDir)
	}

	if p.DryRun {
		p.Log.Info().Strs("sources", sources).Str("dest", p.WorkingDir()).Msg("dry run: would prepare context")
		return nil
	}

	n, err := PrepareContext(ctx, p.Fs, p.Log, p.WorkingDir(), sources...)
	if err != nil {
		return fmt.Errorf("preparing docker context: %w", err)
	}
	p.Log.Info().Int("files", n).Str("dest", p.WorkingDir()).Msg("docker context prepared")
	return nil
}

// BuildImage runs docker build in the working directory and returns the image.
func (p *Pipeline) BuildImage(ctx context.Context) (*Image, error) {
	img, err := p.Image()
	if err != nil {
		return nil, err
	}

	artifact := config.StripPlain(p.Resolver.Value(config.DockerArtifactFile))
	if artifact == "" {
		return nil, fmt.Errorf("%s is empty", config.DockerArtifactFile.Name())
	}
	// docker COPY wants a relative path with a leading "./"
	if !strings.HasPrefix(artifact, "./") {
		artifact = "./" + artifact
	}

	args := []string{"build", "--iidfile", ImageIDFilename, "--build-arg", "ARTIFACT_FILE=" + artifact}
	for _, ref := range img.Refs() {
		args = append(args, "-t", ref)
	}
	args = append(args, ".")

	if err := p.exec(ctx, Command{Dir: p.WorkingDir(), Name: "docker", Args: args}); err != nil {
		return nil, err
	}
	return img, nil
}

// PushImage pushes every tag of the project image.
func (p *Pipeline) PushImage(ctx context.Context) error {
	img, err := p.Image()
	if err != nil {
		return err
	}
	return p.exec(ctx, Command{Dir: p.ProjectDir, Name: "docker", Args: []string{"push", "--all-tags", img.Base}})
}

// RemoveImage removes the image recorded in the id file and, when docker
// succeeds, the working directory.
func (p *Pipeline) RemoveImage(ctx context.Context) error {
	idFile := filepath.Join(p.WorkingDir(), ImageIDFilename)
	id, err := ReadImageID(p.Fs, idFile)
	if err != nil {
		if p.DryRun && errors.Is(err, fs.ErrNotExist) {
			id = "<image id>"
		} else {
			return err
		}
	}

	if err := p.exec(ctx, Command{Dir: p.WorkingDir(), Name: "docker", Args: []string{"rmi", "-f", id}}); err != nil {
		return err
	}
	if p.DryRun {
		return nil
	}
	if err := p.Fs.RemoveAll(p.WorkingDir()); err != nil {
		return fmt.Errorf("removing %s: %w", p.WorkingDir(), err)
	}
	p.Log.Debug().Str("dir", p.WorkingDir()).Msg("working directory removed")
	return nil
}

// ReadImageID reads an --iidfile and strips the digest algorithm prefix.
func ReadImageID(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("reading image id: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if _, hex, ok := strings.Cut(id, ":"); ok {
		id = hex
	}
	if id == "" {
		return "", fmt.Errorf("image id file %s is empty", path)
	}
	return id, nil
}

// exec logs and runs a command; a non-zero exit code becomes an ExitError.
func (p *Pipeline) exec(ctx context.Context, c Command) error {
	line := c.String()
	p.Log.Info().Msg("[command line]")
	p.Log.Info().Msg("$ " + line)

	if p.DryRun {
		return nil
	}

	res, err := p.Runner.Run(ctx, c)
	if err != nil {
		return err
	}
	if out := strings.TrimRight(string(res.Output), "\n"); out != "" {
		p.Log.Info().Msg(out)
	}
	p.Log.Info().Msgf("executionResult: %d", res.ExitCode)

	if res.ExitCode != 0 {
		return &ExitError{Command: line, ExitCode: res.ExitCode}
	}
	return nil
}
