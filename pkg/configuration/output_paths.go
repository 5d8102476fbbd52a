package configuration

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	gerrors "github.com/go-faster/errors"
)

// OutputPaths is the on-disk config file telling the tool where the phone
// fetches its files from. Kept as a separate file rather than env vars so an
// operator can retarget the data directory without touching the deployment.
type OutputPaths struct {
	Output OutputSection `toml:"output"`
}

type OutputSection struct {
	RemotePhoneDir string `toml:"remote_phone_dir"`
	LocalPhoneDir  string `toml:"local_phone_dir"`
}

// EnsureEnvironment bootstraps the config file and the data directory,
// creating both with defaults when absent, and returns the resolved paths.
func (c *Configuration) EnsureEnvironment() (*OutputPaths, error) {
	paths := &OutputPaths{}
	if _, err := os.Stat(c.ConfigFilePath); os.IsNotExist(err) {
		paths.Output = OutputSection{
			RemotePhoneDir: c.DefaultDataDir,
			LocalPhoneDir:  c.DefaultDataDir,
		}
		if err := writeOutputPaths(c.ConfigFilePath, paths); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(c.ConfigFilePath, paths); err != nil {
		return nil, gerrors.Wrap(err, "parse config file")
	}
	if paths.Output.RemotePhoneDir == "" {
		paths.Output.RemotePhoneDir = c.DefaultDataDir
	}
	if err := os.MkdirAll(paths.Output.RemotePhoneDir, 0o755); err != nil {
		return nil, gerrors.Wrap(err, "create data directory")
	}
	return paths, nil
}

func writeOutputPaths(path string, paths *OutputPaths) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return gerrors.Wrap(err, "create config directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return gerrors.Wrap(err, "create config file")
	}
	defer func() { _ = f.Close() }()
	if err := toml.NewEncoder(f).Encode(paths); err != nil {
		return gerrors.Wrap(err, "encode config file")
	}
	return nil
}
