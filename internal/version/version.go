// Package version хранит сведения о сборке orderctl, заполняемые через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/orderstore/internal/version.version=v1.2.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GetVersion возвращает версию сборки; её же отдаёт health-отчёт.
func GetVersion() string { return version }

// String — строка для `orderctl --version`.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
