//go:build !(darwin || linux)

package native

func dlopen(string) (uintptr, error) { return 0, ErrUnsupportedPlatform }

func dlclose(uintptr) {}

func checkSymbols(uintptr, []string) error { return ErrUnsupportedPlatform }

func bind(any, uintptr, string) error { return ErrUnsupportedPlatform }
