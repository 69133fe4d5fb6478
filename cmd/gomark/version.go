package main

import (
	"encoding/json"
	"fmt"

	"github.com/htmlmd/markdown/internal/version"
)

// VersionCmd prints gomark's build information, adapted from the teacher's
// own version command.
type VersionCmd struct {
	JSON bool `help:"Output in JSON format"`
}

func (c *VersionCmd) Run() error {
	info := version.GetBuildInfo()
	if c.JSON {
		out, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshal version info: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(info.String())
	return nil
}
