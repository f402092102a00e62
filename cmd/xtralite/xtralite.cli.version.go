package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo holds version information
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

// Build setting keys recorded by the go toolchain
const (
	buildSettingRevision = "vcs.revision"
	buildSettingTime     = "vcs.time"
	buildVersionDevel    = "(devel)"
)

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	vInfo := getVersionInfo()

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(vInfo, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		vInfo.Version, vInfo.Commit, vInfo.Branch, vInfo.BuildTime, vInfo.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// getVersionInfo prefers a versions.yaml next to the working directory and
// falls back to the build info embedded by the toolchain.
func getVersionInfo() *versionInfo {
	vInfo := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != buildVersionDevel {
			vInfo.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case buildSettingRevision:
				vInfo.Commit = s.Value
			case buildSettingTime:
				vInfo.BuildTime = s.Value
			}
		}
	}

	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		if vy, ok := readVersionsFile(filepath.Join(dir, VersionsFileName)); ok {
			vy.apply(vInfo)
			break
		}
	}

	return vInfo
}

func readVersionsFile(path string) (*versionsYAML, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var vy versionsYAML
	if err := yaml.Unmarshal(data, &vy); err != nil {
		return nil, false
	}
	return &vy, true
}

// apply overrides the fields of v that the file sets
func (vy *versionsYAML) apply(v *versionInfo) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&v.Version, vy.Project.Version},
		{&v.Commit, vy.Git.Commit},
		{&v.Branch, vy.Git.Branch},
		{&v.BuildTime, vy.Build.Time},
		{&v.GoVersion, vy.Build.GoVersion},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
