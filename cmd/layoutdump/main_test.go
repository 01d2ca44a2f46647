package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg, err := loadEnvConfig(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	cmd := newRootCmd(fs, cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return out.String(), err
}

func TestHexCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/data/record.bin"
	require.NoError(t, afero.WriteFile(fs, path, []byte("\x00\x01HELLO\xff"), 0o600))

	t.Run("whole file", func(t *testing.T) {
		out, err := run(t, fs, "hex", path)
		require.NoError(t, err)
		require.Contains(t, out, "00000000  00 01 48 45 4c 4c 4f ff ")
		require.Contains(t, out, "|..HELLO.|")
	})

	t.Run("window", func(t *testing.T) {
		out, err := run(t, fs, "hex", path, "--offset", "2", "--length", "3", "--width", "4")
		require.NoError(t, err)
		require.Equal(t, "00000002  48 45 4c     |HEL|\n", out)
	})

	t.Run("offset past end", func(t *testing.T) {
		_, err := run(t, fs, "hex", path, "--offset", "9")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, fs, "hex", "/data/nope")
		require.Error(t, err)
	})
}

func TestShortVecCommands(t *testing.T) {
	fs := afero.NewMemMapFs()

	out, err := run(t, fs, "shortvec", "encode", "127", "128", "16384")
	require.NoError(t, err)
	require.Equal(t, "127\t7f\t(1 bytes)\n128\t8001\t(2 bytes)\n16384\t808001\t(3 bytes)\n", out)

	out, err = run(t, fs, "shortvec", "decode", "8001")
	require.NoError(t, err)
	require.Equal(t, "value=128 span=2\n", out)

	out, err = run(t, fs, "shortvec", "decode", "8000")
	require.NoError(t, err)
	require.Contains(t, out, "value=0 span=2")
	require.Contains(t, out, "non-minimal encoding: 1 bytes suffice")

	_, err = run(t, fs, "shortvec", "decode", "80")
	require.Error(t, err)

	_, err = run(t, fs, "shortvec", "encode", "-1")
	require.Error(t, err)
}

func TestLoadEnvConfig(t *testing.T) {
	env := map[string]string{}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := loadEnvConfig(lookup)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Width)

	env["LAYOUTDUMP_WIDTH"] = "8"
	cfg, err = loadEnvConfig(lookup)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Width)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r.bin", make([]byte, 10), 0o600))
	var out bytes.Buffer
	cmd := newRootCmd(fs, cfg)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hex", "/r.bin"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))

	env["LAYOUTDUMP_WIDTH"] = "wide"
	_, err = loadEnvConfig(lookup)
	require.Error(t, err)

	env["LAYOUTDUMP_WIDTH"] = "0"
	_, err = loadEnvConfig(lookup)
	require.Error(t, err)
}
