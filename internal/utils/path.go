package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver provides robust path resolution for the phraseward binary
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver anchored at the running executable
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "phraseward")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "phraseward")
		}
		return filepath.Join(homeDir, ".config", "phraseward")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "phraseward")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "phraseward")
	default:
		return filepath.Join(homeDir, ".phraseward")
	}
}

// ResolveKeywordsFile locates the keyword list. Candidates in order:
// the path as given (absolute or cwd-relative), relative to the
// executable, then keywords.txt inside the config directory.
func (pr *PathResolver) ResolveKeywordsFile(userSpecifiedPath string) (string, error) {
	candidates := []string{userSpecifiedPath}
	if !filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
	}
	candidates = append(candidates, filepath.Join(pr.configDir, "keywords.txt"))

	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Found keyword file: %s", path)
			return path, nil
		}
		log.Debugf("Keyword file candidate not found: %s", path)
	}
	// Return the most likely path so the caller can report it.
	return userSpecifiedPath, os.ErrNotExist
}

// GetConfigPath returns the full path for a config file.
// It ensures the config directory exists and falls back to writable
// locations on read-only filesystems.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if pr.ensureWritableDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".phraseward"),
		filepath.Join(os.TempDir(), "phraseward"),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if pr.ensureWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ensureWritableDir creates the directory if missing and tests writability
func (pr *PathResolver) ensureWritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		log.Debugf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	file.Close()
	os.Remove(testFile)
	return true
}
