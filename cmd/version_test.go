package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutput(t *testing.T) {
	cmd := newVersionCmd()
	buffer := &bytes.Buffer{}
	cmd.SetOut(buffer)

	cmd.Run(cmd, nil)

	require.Contains(t, buffer.String(), "smite version")
}
