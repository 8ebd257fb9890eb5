package constants

const (
	// WarningColor used in warning texts
	WarningColor = "\033[1;33m%s\033[0m"
	// ErrorColor used in error texts
	ErrorColor = "\033[1;31m%s\033[0m"
)

// Version of kforge, overridden at link time.
var Version = "0.1.0-dev"

const (
	// UpstreamConfigURL is the pinned upstream arm64 kernel config template.
	UpstreamConfigURL = "https://raw.githubusercontent.com/apple/containerization/" +
		"51ef9f81fef574bbd815d4f5560157297b0a4067/kernel/config-arm64"

	// VendoredConfigPath is the checked-in config, relative to the repo root.
	VendoredConfigPath = "config-arm64"

	// UpstreamLabel and DerivedLabel name the sides of printed diffs.
	UpstreamLabel = "upstream/config-arm64"
	DerivedLabel  = "derived/config-arm64"

	// ExpectedLSM is the security module order the kernel must boot with.
	ExpectedLSM = "landlock,lockdown,yama,loadpin,safesetid,integrity,bpf,apparmor"

	// FetchTimeoutSeconds bounds the upstream template download.
	FetchTimeoutSeconds = 30
)

const (
	// MinBuilderCPUs is the smallest builder allocation that can compile the kernel in reasonable time.
	MinBuilderCPUs = 8
	// MinBuilderMemory is 8 GiB.
	MinBuilderMemory int64 = 8 * 1024 * 1024 * 1024

	// DefaultKernelBranch is the kernel tag checked out inside the build image.
	DefaultKernelBranch = "v6.14.9"
	// DefaultOutputDir receives exported kernel artifacts.
	DefaultOutputDir = "kernel-out"
	// ImageTag names the build image, suffixed with ":export".
	ImageTag = "aarch64-fast-kernel"
	// ExportTarget is the Dockerfile stage that copies artifacts to /out.
	ExportTarget = "export"
	// ExportMount is where the output dir is bind mounted in the export container.
	ExportMount = "/out"
)

const (
	// CodexRepo hosts the CLI releases installed by install-codex.
	CodexRepo = "openai/codex"
	// CodexAsset is the release asset for arm64 linux containers.
	CodexAsset = "codex-aarch64-unknown-linux-musl.tar.gz"
	// CodexDestPath is the install location inside the container.
	CodexDestPath = "/usr/local/bin/codex"
	// GitHubHost is checked by gh auth status.
	GitHubHost = "github.com"
	// GitHubAPI is the REST endpoint used when GH_TOKEN is set.
	GitHubAPI = "https://api.github.com"
)

const (
	// EngineContainer drives the `container` CLI.
	EngineContainer = "container"
	// EngineDocker drives a Docker daemon through its API.
	EngineDocker = "docker"
)
