package main

import (
	"os"

	"github.com/schoolsuite/institute-admin-api/internal/tools/admin"
)

func main() {
	if err := admin.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
