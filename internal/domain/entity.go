package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Record holds the fields every stored entity carries.
type Record struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Accessed time.Time `json:"accessed"`
}

// RecordID returns the row id.
func (r *Record) RecordID() string { return r.ID }

// Defaultable is implemented by the collections that keep a single default row.
type Defaultable interface {
	RecordID() string
	Default() bool
	SetDefault(bool)
}

// InstallationRoot is a directory under which builds are discovered or installed
type InstallationRoot struct {
	Record
	DirectoryPath string `json:"repo_directory_path"`
	IsDefault     bool   `json:"is_default"`
}

func (r *InstallationRoot) Default() bool     { return r.IsDefault }
func (r *InstallationRoot) SetDefault(v bool) { r.IsDefault = v }

// InstalledBuild is one Blender executable known to the application
type InstalledBuild struct {
	Record
	Version                   string `json:"version"`
	Variant                   string `json:"variant_type"`
	DownloadURL               string `json:"download_url,omitempty"` // Empty when discovered by scan
	IsDefault                 bool   `json:"is_default"`
	InstallationDirectoryPath string `json:"installation_directory_path"`
	ExecutableFilePath        string `json:"executable_file_path"`
}

func (b *InstalledBuild) Default() bool     { return b.IsDefault }
func (b *InstalledBuild) SetDefault(v bool) { b.IsDefault = v }

// DisplayName returns "Blender <version> <variant>" or the directory name when
// the version could not be parsed.
func (b InstalledBuild) DisplayName() string {
	if b.Version == "" {
		return b.InstallationDirectoryPath
	}
	if b.Variant == "" {
		return "Blender " + b.Version
	}
	return "Blender " + b.Version + " " + b.Variant
}

// ProjectFile is a .blend document tracked by the application
type ProjectFile struct {
	Record
	FilePath             string `json:"file_path"`
	FileName             string `json:"file_name"`
	AssociatedSeriesJSON string `json:"associated_series_json"`
	LastUsedBuildID      string `json:"last_used_blender_version_id,omitempty"`
}

// Series decodes the series tags. Malformed JSON yields an empty list.
func (p ProjectFile) Series() []string {
	var series []string
	if p.AssociatedSeriesJSON == "" {
		return series
	}
	if err := json.Unmarshal([]byte(p.AssociatedSeriesJSON), &series); err != nil {
		return nil
	}
	return series
}

// SetSeries stores the given tags sorted and JSON encoded.
func (p *ProjectFile) SetSeries(series []string) {
	sorted := append([]string(nil), series...)
	sort.Strings(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	data, _ := json.Marshal(sorted)
	p.AssociatedSeriesJSON = string(data)
}

// AddSeries appends name when missing and reports whether the list changed.
func (p *ProjectFile) AddSeries(name string) bool {
	series := p.Series()
	for _, s := range series {
		if s == name {
			return false
		}
	}
	p.SetSeries(append(series, name))
	return true
}

// LaunchArgument is a reusable set of command-line flags
type LaunchArgument struct {
	Record
	ArgumentString         string `json:"argument_string"`
	IsDefault              bool   `json:"is_default"`
	LastUsedProjectFileID  string `json:"last_used_project_file_id,omitempty"`
	LastUsedPythonScriptID string `json:"last_used_python_script_id,omitempty"`
}

func (a *LaunchArgument) Default() bool     { return a.IsDefault }
func (a *LaunchArgument) SetDefault(v bool) { a.IsDefault = v }

// PythonScript references a script passed to Blender with --python
type PythonScript struct {
	Record
	ScriptFilePath string `json:"script_file_path"`
}

// DownloadableBuild is one entry of the remote build feed
type DownloadableBuild struct {
	URL           string  `json:"url"`
	App           string  `json:"app"`
	Version       string  `json:"version"`
	RiskID        string  `json:"risk_id"`
	Branch        string  `json:"branch"`
	Patch         *string `json:"patch"`
	Hash          string  `json:"hash"`
	Platform      string  `json:"platform"`
	Architecture  string  `json:"architecture"`
	Bitness       int     `json:"bitness"`
	FileMtime     int64   `json:"file_mtime"`
	FileName      string  `json:"file_name"`
	FileSize      int64   `json:"file_size"`
	FileExtension string  `json:"file_extension"`
	ReleaseCycle  string  `json:"release_cycle"`
	Checksum      string  `json:"checksum"`
}
