package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/staticnoiselog/ciplugin/src/config"
	"github.com/staticnoiselog/ciplugin/src/docker"
	"github.com/staticnoiselog/ciplugin/src/gitver"
	"github.com/staticnoiselog/ciplugin/src/logging"
	"github.com/staticnoiselog/ciplugin/src/pipeline"
)

// ShowConfigTask prints the resolved configuration.
const ShowConfigTask = "showCiPluginConfiguration"

// sessionOptions are the persistent flag values.
type sessionOptions struct {
	ConfigFile      string
	ProjectDir      string
	Properties      propertyFlag
	PropertiesFiles []string
	Debug           bool
	DryRun          bool
}

// session is the evaluated project: configuration, resolver and task graph.
type session struct {
	opts     sessionOptions
	dir      string
	cfg      *config.Config
	project  config.ProjectConfig
	props    *config.Properties
	ext      *config.Extension
	resolver *config.Resolver
	graph    *pipeline.Graph
	docker   *docker.Pipeline
	log      zerolog.Logger
	out      io.Writer
}

// newSession loads the project file and property layers, resolves the
// project version and registers the tasks. Human output goes to out, log
// lines to logw.
func newSession(opts sessionOptions, environ []string, out, logw io.Writer, color bool) (*session, error) {
	dir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	log := logging.New(logw, logging.Options{Debug: opts.Debug, Color: color})

	cfg, err := config.Load(dir, opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debug().Str("path", cfg.Path).Msg("project file loaded")
	}

	for _, path := range opts.PropertiesFiles {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("properties file: %w", err)
		}
	}
	files := append([]string{filepath.Join(dir, config.DefaultPropertiesFile)}, opts.PropertiesFiles...)
	fileProps, err := config.LoadPropertiesFiles(files...)
	if err != nil {
		return nil, err
	}
	props, err := config.NewProperties(config.EnvProperties(environ), fileProps, opts.Properties)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", props.Len()).Msg("properties merged")

	project := cfg.Project
	if project.Version == "" {
		info, err := gitver.Detect(dir)
		if err != nil {
			return nil, fmt.Errorf("detecting version: %w", err)
		}
		project.Version = info.Version
		log.Debug().Str("version", info.Version).Str("tag", info.Tag).Bool("release", info.IsRelease).Msg("version detected from git")
	}

	ext := cfg.Extension()
	config.ApplyProjectDefaults(ext, project)

	s := &session{
		opts:     opts,
		dir:      dir,
		cfg:      cfg,
		project:  project,
		props:    props,
		ext:      ext,
		resolver: config.NewResolver(props, ext, log),
		graph:    pipeline.NewGraph(),
		log:      log,
		out:      out,
	}
	s.docker = &docker.Pipeline{
		Resolver:   s.resolver,
		Project:    project,
		ProjectDir: dir,
		Runner:     docker.ExecRunner{},
		Fs:         afero.NewOsFs(),
		Log:        log,
		DryRun:     opts.DryRun,
	}

	if err := s.graph.Register(pipeline.Task{
		Name:        ShowConfigTask,
		Group:       docker.TaskGroup,
		Description: "Displays the CI plugin configuration.",
		Action: func(context.Context) error {
			return s.showConfig(false)
		},
	}); err != nil {
		return nil, err
	}
	if err := s.docker.Register(s.graph); err != nil {
		return nil, err
	}
	return s, nil
}

// showConfig writes the configuration listing. Passwords are shown only
// with --debug.
func (s *session) showConfig(withSource bool) error {
	return config.WriteDisplay(s.out, s.resolver.Display(s.opts.Debug), withSource)
}
