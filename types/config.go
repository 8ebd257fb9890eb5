package types

import (
	"github.com/fastkernel/kforge/constants"
)

// Config for kforge
type Config struct {
	// Engine selects the container engine: "container" or "docker".
	Engine string `json:",omitempty"`

	// Reconcile configures the kernel config reconciler.
	Reconcile ReconcileConfig `json:",omitempty"`

	// Kernel configures the kernel image build.
	Kernel KernelConfig `json:",omitempty"`

	// Install configures the release installer.
	Install InstallConfig `json:",omitempty"`

	// RunConfig
	RunConfig RunConfig `json:",omitempty"`
}

// ReconcileConfig locates the upstream template, the vendored copy and the
// override rules.
type ReconcileConfig struct {
	// Upstream is a URL or local path of the template.
	Upstream string `json:",omitempty"`

	// Vendored is the checked-in config path.
	Vendored string `json:",omitempty"`

	// OverridesFile is an optional yaml file replacing the built-in rules.
	OverridesFile string `json:",omitempty"`

	// Format of the per-key report: "text" or "table".
	Format string `json:",omitempty"`

	// Write persists the derived config over Vendored.
	Write bool `json:",omitempty"`
}

// KernelConfig drives the container build of the kernel image.
type KernelConfig struct {
	// Branch is the kernel branch or tag to build.
	Branch string `json:",omitempty"`

	// OutputDir receives exported artifacts.
	OutputDir string `json:",omitempty"`

	// ImageTag names the build image.
	ImageTag string `json:",omitempty"`

	// ContextDir is the build context holding the Dockerfile.
	ContextDir string `json:",omitempty"`

	// IgnoreResourceCheck skips builder CPU and memory validation.
	IgnoreResourceCheck bool `json:",omitempty"`
}

// InstallConfig selects the release asset copied into a container.
type InstallConfig struct {
	Repo      string `json:",omitempty"`
	AssetName string `json:",omitempty"`
	DestPath  string `json:",omitempty"`
}

// RunConfig holds output toggles shared by every command.
type RunConfig struct {
	ShowWarnings bool `json:",omitempty"`
	ShowErrors   bool `json:",omitempty"`
	ShowDebug    bool `json:",omitempty"`
	Verbose      bool `json:",omitempty"`
	JSON         bool `json:",omitempty"`
}

// NewConfig returns a Config with every default filled in.
func NewConfig() *Config {
	return &Config{
		Engine: constants.EngineContainer,
		Reconcile: ReconcileConfig{
			Upstream: constants.UpstreamConfigURL,
			Vendored: constants.VendoredConfigPath,
			Format:   "text",
		},
		Kernel: KernelConfig{
			Branch:     constants.DefaultKernelBranch,
			OutputDir:  constants.DefaultOutputDir,
			ImageTag:   constants.ImageTag,
			ContextDir: ".",
		},
		Install: InstallConfig{
			Repo:      constants.CodexRepo,
			AssetName: constants.CodexAsset,
			DestPath:  constants.CodexDestPath,
		},
	}
}
