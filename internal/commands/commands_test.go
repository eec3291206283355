package commands

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	args, ok := Parse("cmd generate -class cruiser")
	assert.True(t, ok)
	assert.Equal(t, []string{"generate", "-class", "cruiser"}, args)

	args, ok = Parse("cmd   ")
	assert.True(t, ok)
	assert.Nil(t, args)

	_, ok = Parse("Cmd generate")
	assert.False(t, ok)
	_, ok = Parse("make me a cruiser")
	assert.False(t, ok)
}

func TestExecuteParsesFlagsAndArgs(t *testing.T) {
	reg := NewRegistry(nil)
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "stl", "")
	var got []string
	reg.Register("export", "write the last ship", fs, func() error {
		got = fs.Args()
		return nil
	})

	require.NoError(t, reg.Execute([]string{"export", "-format", "obj", "out/a.obj"}))
	assert.Equal(t, "obj", *format)
	assert.Equal(t, []string{"out/a.obj"}, got)
}

func TestExecuteErrors(t *testing.T) {
	var out bytes.Buffer
	reg := NewRegistry(&out)
	boom := errors.New("boom")
	reg.Register("fail", "always fails", nil, func() error { return boom })
	reg.Register("noop", "does nothing", flag.NewFlagSet("noop", flag.ExitOnError), func() error { return nil })

	assert.EqualError(t, reg.Execute(nil), "missing subcommand")
	assert.EqualError(t, reg.Execute([]string{"warp"}), "unknown command: warp")
	assert.ErrorIs(t, reg.Execute([]string{"fail"}), boom)

	// ExitOnError was replaced; a bad flag comes back as an error.
	err := reg.Execute([]string{"noop", "-nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noop:")
	assert.Contains(t, out.String(), "flag provided but not defined")

	assert.ErrorIs(t, reg.Execute([]string{"noop", "-h"}), flag.ErrHelp)
}

func TestNamesAndUsage(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("stats", "show totals", nil, func() error { return nil })
	reg.Register("cache", "cache stats", nil, func() error { return nil })
	assert.Equal(t, []string{"cache", "stats"}, reg.Names())

	cmd, ok := reg.Lookup("stats")
	require.True(t, ok)
	assert.Equal(t, "show totals", cmd.Summary)

	var buf bytes.Buffer
	reg.Usage(&buf)
	assert.Equal(t, "  cache  cache stats\n  stats  show totals\n", buf.String())
}

func TestExecuteResetsFlagsBetweenCalls(t *testing.T) {
	reg := NewRegistry(nil)
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	class := fs.String("class", "fighter", "")
	random := fs.Bool("random", true, "")
	var seen []string
	reg.Register("generate", "build a ship", fs, func() error {
		seen = append(seen, *class)
		return nil
	})

	require.NoError(t, reg.Execute([]string{"generate", "-class", "capital", "-random=false"}))
	assert.False(t, *random)
	require.NoError(t, reg.Execute([]string{"generate"}))
	assert.Equal(t, []string{"capital", "fighter"}, seen)
	assert.True(t, *random)
}
