package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(args string) error {
	cmd := RootCommand()
	cmd.SetArgs(strings.Split(args, " "))
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	return cmd.Execute()
}

func TestStage1RequiresTokenizer(t *testing.T) {
	err := execute("stage1 -i datasets/stage1.tsv --log-format json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "tokenizer path")
}

func TestStage2RequiresInput(t *testing.T) {
	err := execute("stage2 --tokenizer tokenizer.json --log-format json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "input")
}

func TestInvalidLogging(t *testing.T) {
	err := execute("stage1 -i datasets/stage1.tsv --log-level verbose")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid logging level")

	err = execute("stage1 -i datasets/stage1.tsv --log-level info --log-format xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log format")
}

func TestTokenizerFlagsVariant(t *testing.T) {
	f := tokenizerFlags{}
	require.Equal(t, "standard", f.variant().String())
	f.social = true
	require.Equal(t, "social", f.variant().String())
}
