// Package native locates and loads the Belledonne shared libraries.
package native

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"braces.dev/errtrace"
)

// SDKPathEnv names a directory searched for every library.
const SDKPathEnv = "LINPHONE_SDK_LIB_PATH"

// ErrUnsupportedPlatform is returned where dlopen is not available.
var ErrUnsupportedPlatform = errors.New("native libraries not supported on " + runtime.GOOS)

// Library is a shared library loaded on first use.
type Library struct {
	// Name is the base name, e.g. "bellesip" for libbellesip.so.
	Name string
	// PathEnv names an environment variable holding an exact library path.
	PathEnv string
	// Versions lists soname suffixes tried after the unversioned name.
	Versions []string
	// Required symbols; loading fails if any is missing.
	Required []string

	once   sync.Once
	handle uintptr
	err    error
}

// BelleSIP is libbellesip.
var BelleSIP = &Library{
	Name:     "bellesip",
	PathEnv:  "BELLESIP_LIB_PATH",
	Versions: []string{"1", "0"},
	Required: []string{
		"belle_generic_uri_new",
		"belle_generic_uri_parse",
		"belle_generic_uri_get_scheme",
		"belle_generic_uri_set_scheme",
		"belle_generic_uri_get_user",
		"belle_generic_uri_set_user",
		"belle_generic_uri_get_user_password",
		"belle_generic_uri_set_user_password",
		"belle_generic_uri_get_host",
		"belle_generic_uri_set_host",
		"belle_generic_uri_get_path",
		"belle_generic_uri_set_path",
		"belle_generic_uri_get_query",
		"belle_generic_uri_set_query",
		"belle_generic_uri_get_opaque_part",
		"belle_generic_uri_set_opaque_part",
		"belle_generic_uri_get_port",
		"belle_generic_uri_set_port",
		"belle_sip_object_ref",
		"belle_sip_object_unref",
		"belle_sip_object_clone",
		"belle_sip_object_to_string",
		"belle_sip_free",
	},
}

// BCToolbox is libbctoolbox.
var BCToolbox = &Library{
	Name:     "bctoolbox",
	PathEnv:  "BCTOOLBOX_LIB_PATH",
	Versions: []string{"1", "0"},
	Required: []string{
		"bctbx_list_new",
		"bctbx_list_append",
		"bctbx_list_size",
		"bctbx_list_nth_data",
		"bctbx_list_free",
		"bctbx_malloc",
		"bctbx_free",
	},
}

// Load opens the library once and verifies its required symbols.
func (l *Library) Load() error {
	l.once.Do(func() {
		l.err = l.load()
	})
	return l.err
}

// Handle returns the dlopen handle, zero if not loaded.
func (l *Library) Handle() uintptr {
	if l.Load() != nil {
		return 0
	}
	return l.handle
}

func (l *Library) load() error {
	var lastErr error
	for _, path := range l.SearchPaths() {
		handle, err := dlopen(path)
		if err != nil {
			lastErr = err
			continue
		}
		if err := checkSymbols(handle, l.Required); err != nil {
			dlclose(handle)
			lastErr = err
			continue
		}
		l.handle = handle
		return nil
	}

	if lastErr != nil {
		return errtrace.Wrap(fmt.Errorf("failed to load lib%s: %w", l.Name, lastErr))
	}
	return errtrace.Wrap(fmt.Errorf("lib%s not found in any standard location", l.Name))
}

// Bind points fptr, a pointer to a func variable, at the named symbol.
func (l *Library) Bind(fptr any, name string) error {
	if err := l.Load(); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(bind(fptr, l.handle, name))
}

// fileNames returns candidate file names, unversioned first.
func (l *Library) fileNames() []string {
	base := "lib" + l.Name
	if runtime.GOOS == "darwin" {
		names := []string{base + ".dylib"}
		for _, v := range l.Versions {
			names = append(names, base+"."+v+".dylib")
		}
		return names
	}
	names := []string{base + ".so"}
	for _, v := range l.Versions {
		names = append(names, base+".so."+v)
	}
	return names
}

// SearchPaths lists candidate paths in priority order.
func (l *Library) SearchPaths() []string {
	var paths []string
	names := l.fileNames()

	// Environment variable overrides (highest priority)
	if l.PathEnv != "" {
		if envPath := os.Getenv(l.PathEnv); envPath != "" {
			paths = append(paths, envPath)
		}
	}
	if envPath := os.Getenv(SDKPathEnv); envPath != "" {
		for _, n := range names {
			paths = append(paths, filepath.Join(envPath, n))
		}
	}

	// Search relative to executable location
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, n := range names {
			paths = append(paths,
				filepath.Join(exeDir, n),
				filepath.Join(exeDir, "..", "lib", n),
			)
		}
	}

	// Search relative to module root (find go.mod from cwd)
	if moduleRoot := findModuleRoot(); moduleRoot != "" {
		for _, n := range names {
			paths = append(paths, filepath.Join(moduleRoot, "build", n))
		}
	}

	// System paths (lowest priority). Bare names go through the loader's own search.
	paths = append(paths, names...)
	switch runtime.GOOS {
	case "darwin":
		for _, n := range names {
			paths = append(paths,
				filepath.Join("/usr/local/lib", n),
				filepath.Join("/opt/homebrew/lib", n),
			)
		}
	case "linux":
		for _, n := range names {
			paths = append(paths,
				filepath.Join("/usr/local/lib", n),
				filepath.Join("/usr/lib", n),
				filepath.Join("/usr/lib/x86_64-linux-gnu", n),
				filepath.Join("/usr/lib/aarch64-linux-gnu", n),
			)
		}
	}

	return paths
}

// findModuleRoot walks up the directory tree from the current working directory
// to find the module root (directory containing go.mod).
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
