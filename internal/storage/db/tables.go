package db

import "github.com/JJeris/blendio/internal/domain"

var rootsTable = table[domain.InstallationRoot]{
	name:    "blender_repo_paths",
	entity:  "installation root",
	key:     "repo_directory_path",
	columns: []string{"repo_directory_path", "is_default"},
	record:  func(r *domain.InstallationRoot) *domain.Record { return &r.Record },
	values: func(r *domain.InstallationRoot) []any {
		return []any{r.DirectoryPath, r.IsDefault}
	},
	dests: func(r *domain.InstallationRoot) []any {
		return []any{&r.DirectoryPath, &r.IsDefault}
	},
}

var buildsTable = table[domain.InstalledBuild]{
	name:   "installed_blender_versions",
	entity: "installed build",
	key:    "executable_file_path",
	columns: []string{
		"version", "variant_type", "download_url", "is_default",
		"installation_directory_path", "executable_file_path",
	},
	record: func(b *domain.InstalledBuild) *domain.Record { return &b.Record },
	values: func(b *domain.InstalledBuild) []any {
		return []any{
			b.Version, b.Variant, nullable(b.DownloadURL), b.IsDefault,
			b.InstallationDirectoryPath, b.ExecutableFilePath,
		}
	},
	dests: func(b *domain.InstalledBuild) []any {
		return []any{
			&b.Version, &b.Variant, optional{&b.DownloadURL}, &b.IsDefault,
			&b.InstallationDirectoryPath, &b.ExecutableFilePath,
		}
	},
}

var projectsTable = table[domain.ProjectFile]{
	name:    "project_files",
	entity:  "project file",
	key:     "file_path",
	columns: []string{"file_path", "file_name", "associated_series_json", "last_used_blender_version_id"},
	record:  func(p *domain.ProjectFile) *domain.Record { return &p.Record },
	values: func(p *domain.ProjectFile) []any {
		series := p.AssociatedSeriesJSON
		if series == "" {
			series = "[]"
		}
		return []any{p.FilePath, p.FileName, series, nullable(p.LastUsedBuildID)}
	},
	dests: func(p *domain.ProjectFile) []any {
		return []any{&p.FilePath, &p.FileName, &p.AssociatedSeriesJSON, optional{&p.LastUsedBuildID}}
	},
}

var argumentsTable = table[domain.LaunchArgument]{
	name:    "launch_arguments",
	entity:  "launch argument",
	key:     "argument_string",
	columns: []string{"is_default", "argument_string", "last_used_project_file_id", "last_used_python_script_id"},
	record:  func(a *domain.LaunchArgument) *domain.Record { return &a.Record },
	values: func(a *domain.LaunchArgument) []any {
		return []any{a.IsDefault, a.ArgumentString, nullable(a.LastUsedProjectFileID), nullable(a.LastUsedPythonScriptID)}
	},
	dests: func(a *domain.LaunchArgument) []any {
		return []any{&a.IsDefault, &a.ArgumentString, optional{&a.LastUsedProjectFileID}, optional{&a.LastUsedPythonScriptID}}
	},
}

var scriptsTable = table[domain.PythonScript]{
	name:    "python_scripts",
	entity:  "python script",
	key:     "script_file_path",
	columns: []string{"script_file_path"},
	record:  func(s *domain.PythonScript) *domain.Record { return &s.Record },
	values: func(s *domain.PythonScript) []any {
		return []any{s.ScriptFilePath}
	},
	dests: func(s *domain.PythonScript) []any {
		return []any{&s.ScriptFilePath}
	},
}

// Roots returns the installation root repository
func (d *DB) Roots() *Repository[domain.InstallationRoot] {
	return newRepository(d, rootsTable)
}

// Builds returns the installed build repository
func (d *DB) Builds() *Repository[domain.InstalledBuild] {
	return newRepository(d, buildsTable)
}

// Projects returns the project file repository
func (d *DB) Projects() *Repository[domain.ProjectFile] {
	return newRepository(d, projectsTable)
}

// Arguments returns the launch argument repository
func (d *DB) Arguments() *Repository[domain.LaunchArgument] {
	return newRepository(d, argumentsTable)
}

// Scripts returns the python script repository
func (d *DB) Scripts() *Repository[domain.PythonScript] {
	return newRepository(d, scriptsTable)
}
