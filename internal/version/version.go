package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GetVersion возвращает версию сборки, заполняемую через -ldflags.
func GetVersion() string { return version }

// String возвращает полную строку версии сборки.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
