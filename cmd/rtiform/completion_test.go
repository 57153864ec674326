package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell    Shell
		contains []string
	}{
		{ShellBash, []string{
			"complete -o filenames -F _rtiform rtiform",
			`compgen -W "pdf html"`,
			`_rtiform_files "yaml|yml"`,
			"--no-prefill",
		}},
		{ShellZsh, []string{
			"#compdef rtiform",
			"compdef _rtiform rtiform",
			"'(-f --format)'{-f,--format}",
			"(native chrome)",
			"'wizard:Fill in an application interactively'",
		}},
		{ShellFish, []string{
			"complete -c rtiform -f",
			"-n '__fish_use_subcommand' -a generate",
			"-l format -s f",
			"(__fish_complete_suffix .yaml)",
			"-xa '(__fish_complete_directories)'",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("%s script missing %q", tt.shell, s)
				}
			}
			for _, c := range getCommands() {
				if !strings.Contains(buf.String(), c.Name) {
					t.Errorf("%s script missing command %q", tt.shell, c.Name)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "powershell")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Flags come from the parsers' FlagSets
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := map[string]commandDef{}
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	flag := func(cmd, long string) (flagDef, bool) {
		for _, f := range byName[cmd].Flags {
			if f.Long == long {
				return f, true
			}
		}
		return flagDef{}, false
	}

	tests := []struct {
		cmd, long string
		wantKind  flagKind
	}{
		{"generate", "workers", flagValue},
		{"generate", "format", flagEnum},
		{"generate", "output", flagDir},
		{"generate", "config", flagFile},
		{"generate", "quiet", flagBool},
		{"wizard", "save", flagFile},
		{"wizard", "no-prefill", flagBool},
		{"guide", "output", flagFile},
		{"guide", "style", flagEnum},
		{"doctor", "json", flagBool},
	}
	for _, tt := range tests {
		f, ok := flag(tt.cmd, tt.long)
		if !ok {
			t.Errorf("%s has no --%s", tt.cmd, tt.long)
			continue
		}
		if f.Kind != tt.wantKind {
			t.Errorf("%s --%s kind = %d, want %d", tt.cmd, tt.long, f.Kind, tt.wantKind)
		}
	}

	if f, _ := flag("guide", "output"); len(f.Exts) != 1 || f.Exts[0] != "html" {
		t.Errorf("guide --output exts = %v, want [html]", f.Exts)
	}
	if got := strings.Join(byName["help"].Args, " "); !strings.Contains(got, "generate") {
		t.Errorf("help args = %q, want command names", got)
	}
}

func TestRunCompletion_NoArgs(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(t)
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: rtiform completion <shell>") {
		t.Errorf("stdout = %q", stdout)
	}
}
