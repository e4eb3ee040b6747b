package ioartifact

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

func ArtifactReadError(path string, err error) error {
	msg := `Cannot read intermediate file <em>%s</em>

<em>How to fix:</em>
  1. Run the previous stage again
  2. Check permissions of the artifact directory`
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ArtifactReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read artifact %s: %w", path, err),
	}
}

func ArtifactWriteError(path string, err error) error {
	msg := "Cannot write intermediate file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ArtifactWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write artifact %s: %w", path, err),
	}
}
