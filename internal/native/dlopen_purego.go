//go:build darwin || linux

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func dlclose(handle uintptr) {
	_ = purego.Dlclose(handle)
}

func checkSymbols(handle uintptr, names []string) error {
	for _, name := range names {
		if _, err := purego.Dlsym(handle, name); err != nil {
			return fmt.Errorf("missing symbol %s: %w", name, err)
		}
	}
	return nil
}

func bind(fptr any, handle uintptr, name string) error {
	sym, err := purego.Dlsym(handle, name)
	if err != nil {
		return fmt.Errorf("missing symbol %s: %w", name, err)
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}
