package commands_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/cmd/cargo-outdated/commands"
	"github.com/pombredanne/cargo-outdated/internal/app"
	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

type fakeApp struct {
	run func(ctx context.Context, opts app.Options, emit func(domain.DriftRecord)) error
}

func (f *fakeApp) Run(ctx context.Context, opts app.Options, emit func(domain.DriftRecord)) error {
	if f.run == nil {
		return nil
	}
	return f.run(ctx, opts, emit)
}

type fakeLevels struct {
	level slog.Level
	set   bool
}

func (f *fakeLevels) SetLevel(level slog.Level) {
	f.level = level
	f.set = true
}

func execute(t *testing.T, a *fakeApp, args []string) (*commands.CLI, *bytes.Buffer, error) {
	t.Helper()
	cli := commands.New(a, &fakeLevels{})
	out := &bytes.Buffer{}
	cli.SetOutput(out, &bytes.Buffer{})
	cli.SetArgs(args)
	return cli, out, cli.Execute(context.Background())
}

func driftRecord() domain.DriftRecord {
	return domain.DriftRecord{
		Name:       "dep",
		Current:    "1.0.0",
		Compatible: domain.Branch{Status: domain.BranchDrifted, Version: "1.2.0"},
		Latest:     domain.Branch{Status: domain.BranchDrifted, Version: "2.0.0"},
	}
}

func TestExecute_RendersReportAndExitCode(t *testing.T) {
	a := &fakeApp{
		run: func(_ context.Context, _ app.Options, emit func(domain.DriftRecord)) error {
			emit(driftRecord())
			return nil
		},
	}
	cli, out, err := execute(t, a, []string{"--exit-code", "101", "--color", "never"})
	require.NoError(t, err)

	assert.Equal(t, 101, cli.ExitCode())
	assert.Contains(t, out.String(), "Package")
	assert.Contains(t, out.String(), "dep")
	assert.Contains(t, out.String(), "1.2.0")
	assert.Contains(t, out.String(), "2.0.0")
}

func TestExecute_NoDriftExitsZero(t *testing.T) {
	cli, out, err := execute(t, &fakeApp{}, []string{"--exit-code", "101"})
	require.NoError(t, err)

	assert.Equal(t, 0, cli.ExitCode())
	assert.Empty(t, out.String(), "nothing to report, nothing to print")
}

func TestExecute_ForwardsFlags(t *testing.T) {
	var got app.Options
	a := &fakeApp{
		run: func(_ context.Context, opts app.Options, _ func(domain.DriftRecord)) error {
			got = opts
			return nil
		},
	}
	_, _, err := execute(t, a, []string{
		"--manifest-path", "sub/Cargo.toml",
		"--features", "tls,json",
		"--packages", "alpha",
		"-p", "beta",
		"--root", "alpha",
		"--depth", "3",
	})
	require.NoError(t, err)

	assert.Equal(t, "sub/Cargo.toml", got.ManifestPath)
	assert.Equal(t, []string{"tls", "json"}, got.Features)
	assert.Equal(t, []string{"alpha", "beta"}, got.Packages)
	assert.Equal(t, "alpha", got.Root)
	assert.Equal(t, 3, got.Depth)
	assert.NotEmpty(t, got.Workdir)
}

func TestExecute_RootDepsOnlyImpliesDepthOne(t *testing.T) {
	var got app.Options
	a := &fakeApp{
		run: func(_ context.Context, opts app.Options, _ func(domain.DriftRecord)) error {
			got = opts
			return nil
		},
	}
	_, _, err := execute(t, a, []string{"-R"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Depth)
}

func TestExecute_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "unknown color mode",
			args: []string{"--color", "sometimes"},
			want: "invalid color mode",
		},
		{
			name: "negative depth",
			args: []string{"--depth", "-1"},
			want: "depth must not be negative",
		},
		{
			name: "depth conflicts with root-deps-only",
			args: []string{"--depth", "2", "--root-deps-only"},
			want: "none of the others can be",
		},
		{
			name: "all-features conflicts with features",
			args: []string{"--all-features", "--features", "tls"},
			want: "none of the others can be",
		},
		{
			name: "verbose conflicts with quiet",
			args: []string{"--verbose", "--quiet"},
			want: "none of the others can be",
		},
		{
			name: "positional arguments rejected",
			args: []string{"outdated"},
			want: "unknown command",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			a := &fakeApp{
				run: func(context.Context, app.Options, func(domain.DriftRecord)) error {
					called = true
					return nil
				},
			}
			_, _, err := execute(t, a, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, called, "run must not start with invalid flags")
		})
	}
}

func TestExecute_PropagatesRunError(t *testing.T) {
	a := &fakeApp{
		run: func(context.Context, app.Options, func(domain.DriftRecord)) error {
			return zerr.With(domain.ErrUpdateFailed, "policy", "latest")
		},
	}
	_, out, err := execute(t, a, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpdateFailed)
	assert.Empty(t, out.String())
}

func TestExecute_VerbosityAdjustsLogLevel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want slog.Level
		set  bool
	}{
		{name: "verbose", args: []string{"--verbose"}, want: slog.LevelDebug, set: true},
		{name: "quiet", args: []string{"--quiet"}, want: slog.LevelError, set: true},
		{name: "default", args: nil, set: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := &fakeLevels{}
			cli := commands.New(&fakeApp{}, levels)
			cli.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
			cli.SetArgs(tt.args)
			require.NoError(t, cli.Execute(context.Background()))

			assert.Equal(t, tt.set, levels.set)
			if tt.set {
				assert.Equal(t, tt.want, levels.level)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	cli := commands.New(&fakeApp{}, &fakeLevels{})
	out := &bytes.Buffer{}
	cli.SetOutput(out, &bytes.Buffer{})
	cli.SetArgs([]string{"--version"})
	require.NoError(t, cli.Execute(context.Background()))

	line := strings.TrimSpace(out.String())
	assert.Contains(t, line, "cargo-outdated version")
	assert.Contains(t, line, "commit:")
}
