package engine

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	dockerTypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	dockerContainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/system"
	dockerClient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/fastkernel/kforge/log"
	"github.com/google/uuid"
	"github.com/moby/term"
	"github.com/olekukonko/tablewriter"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
)

// dockerAPI is the part of the Docker client the engine uses.
type dockerAPI interface {
	Ping(ctx context.Context) (dockerTypes.Ping, error)
	Info(ctx context.Context) (system.Info, error)
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ContainerCreate(ctx context.Context, config *dockerContainer.Config, hostConfig *dockerContainer.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (dockerContainer.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options dockerContainer.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition dockerContainer.WaitCondition) (<-chan dockerContainer.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options dockerContainer.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options dockerContainer.RemoveOptions) error
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options dockerContainer.CopyToContainerOptions) error
	ContainerList(ctx context.Context, options dockerContainer.ListOptions) ([]dockerContainer.Summary, error)
}

// DockerEngine talks to a Docker daemon through the SDK.
type DockerEngine struct {
	cli dockerAPI
}

// NewDockerEngine returns an engine configured from the DOCKER_* environment.
func NewDockerEngine() (*DockerEngine, error) {
	cli, err := dockerClient.NewClientWithOpts(dockerClient.FromEnv, dockerClient.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "docker client")
	}
	return &DockerEngine{cli: cli}, nil
}

// SystemStart checks the daemon answers.
func (e *DockerEngine) SystemStart(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return errors.Wrap(err, "docker daemon is not reachable")
	}
	return nil
}

// Resources reports the daemon's CPUs and memory.
func (e *DockerEngine) Resources(ctx context.Context) (Resources, error) {
	info, err := e.cli.Info(ctx)
	if err != nil {
		return Resources{}, errors.Wrap(err, "unable to determine builder resources")
	}
	return Resources{CPUs: info.NCPU, Memory: info.MemTotal}, nil
}

// Build sends the context directory to the daemon and streams progress.
func (e *DockerEngine) Build(ctx context.Context, spec BuildSpec) error {
	if _, err := reference.ParseNormalizedNamed(spec.Tag); err != nil {
		return errors.Wrapf(err, "invalid image tag %q", spec.Tag)
	}

	args := map[string]*string{}
	for k, v := range spec.BuildArgs {
		v := v
		args[k] = &v
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(tarDirectory(contextDir(spec.ContextDir), pw))
	}()
	defer pr.Close()

	resp, err := e.cli.ImageBuild(ctx, pr, build.ImageBuildOptions{
		Tags:       []string{spec.Tag},
		Target:     spec.Target,
		BuildArgs:  args,
		Remove:     true,
		Dockerfile: "Dockerfile",
	})
	if err != nil {
		return errors.Wrap(err, "docker build")
	}
	defer resp.Body.Close()

	out := writerOrDiscard(spec.Output)
	termFd, isTerm := term.GetFdInfo(out)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, termFd, isTerm, nil); err != nil {
		return errors.Wrap(err, "docker build")
	}
	return nil
}

// Run creates, starts and waits for a container, then removes it.
func (e *DockerEngine) Run(ctx context.Context, spec RunSpec) error {
	binds := make([]string, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		binds = append(binds, m.Host+":"+m.Container)
	}

	name := "kforge-" + uuid.NewString()[:8]
	created, err := e.cli.ContainerCreate(ctx,
		&dockerContainer.Config{Image: spec.Image},
		&dockerContainer.HostConfig{Binds: binds},
		nil, nil, name)
	if err != nil {
		return errors.Wrapf(err, "create container from %s", spec.Image)
	}
	defer func() {
		if err := e.cli.ContainerRemove(context.Background(), created.ID, dockerContainer.RemoveOptions{Force: true}); err != nil {
			log.Warnf("failed removing container %s: %v", name, err)
		}
	}()

	if err := e.cli.ContainerStart(ctx, created.ID, dockerContainer.StartOptions{}); err != nil {
		return errors.Wrapf(err, "start container %s", name)
	}

	statusCh, errCh := e.cli.ContainerWait(ctx, created.ID, dockerContainer.WaitConditionNotRunning)
	var status int64
	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrapf(err, "wait for container %s", name)
		}
	case st := <-statusCh:
		status = st.StatusCode
	}

	if spec.Output != nil {
		logs, err := e.cli.ContainerLogs(ctx, created.ID, dockerContainer.LogsOptions{ShowStdout: true})
		if err == nil {
			stdcopy.StdCopy(spec.Output, io.Discard, logs)
			logs.Close()
		}
	}

	if status != 0 {
		return fmt.Errorf("container %s exited with status %d", name, status)
	}
	return nil
}

// CopyFile uploads src as a single file tar archive.
func (e *DockerEngine) CopyFile(ctx context.Context, container string, src io.Reader, size int64, dest string) error {
	pr, pw := io.Pipe()
	go func() {
		tw := tar.NewWriter(pw)
		err := tw.WriteHeader(&tar.Header{
			Name:     path.Base(dest),
			Mode:     0755,
			Size:     size,
			Typeflag: tar.TypeReg,
		})
		if err == nil {
			_, err = io.CopyN(tw, src, size)
		}
		if err == nil {
			err = tw.Close()
		}
		pw.CloseWithError(err)
	}()
	defer pr.Close()

	err := e.cli.CopyToContainer(ctx, container, path.Dir(dest), pr, dockerContainer.CopyToContainerOptions{})
	return errors.Wrapf(err, "copy to container %s", container)
}

// List renders the running containers as a table.
func (e *DockerEngine) List(ctx context.Context, w io.Writer) error {
	containers, err := e.cli.ContainerList(ctx, dockerContainer.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "docker ps")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Image", "State"})
	for _, c := range containers {
		id := c.ID
		if len(id) > 12 {
			id = id[:12]
		}
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		table.Append([]string{id, name, c.Image, string(c.State)})
	}
	table.Render()
	return nil
}

// tarDirectory writes the regular files and directories under root to w.
func tarDirectory(root string, w io.Writer) error {
	tw := tar.NewWriter(w)
	err := filepath.Walk(root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return err
		}
		if fi.IsDir() && fi.Name() == ".git" {
			return filepath.SkipDir
		}
		if !fi.Mode().IsRegular() && !fi.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	return tw.Close()
}
