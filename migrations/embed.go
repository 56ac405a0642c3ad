// Package migrations embeds the schema files so the migrate binary is
// self-contained and runs from any working directory.
package migrations

import (
	"embed"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Names returns the migration filenames in apply order.
func Names() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
