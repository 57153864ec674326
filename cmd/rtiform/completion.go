package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rtiform/internal/config"
)

// Shell is a shell the completion command writes scripts for.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var supportedShells = []Shell{ShellBash, ShellZsh, ShellFish}

// flagKind is how a flag's value is completed.
type flagKind int

const (
	flagValue flagKind = iota // free text or number
	flagBool
	flagEnum
	flagFile
	flagDir
)

// flagDef describes one flag for completion.
type flagDef struct {
	Long   string
	Short  string
	Kind   flagKind
	Desc   string
	Values []string // flagEnum
	Exts   []string // flagFile, without the dot
}

// commandDef describes one command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional words
	Exts  []string // positional files and directories, without the dot
}

// completionMeta adds value hints to flags registered on the FlagSets.
type completionMeta struct {
	Values []string
	Exts   []string
	Dir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"format":      {Values: []string{config.FormatPDF, config.FormatHTML}},
	"renderer":    {Values: []string{config.BackendNative, config.BackendChrome}},
	"style":       {Values: []string{"dark", "light", "notty"}},
	"date-format": {Values: []string{"iso", "european", "us", "long"}},
	"config":      {Exts: []string{"yaml", "yml"}},
	"save":        {Exts: []string{"yaml", "yml"}},
	"output":      {Dir: true},
	"asset-path":  {Dir: true},
}

// commandFlagMeta overrides flagCompletionMeta for one command's flag.
var commandFlagMeta = map[string]completionMeta{
	"guide/output": {Exts: []string{"html"}},
}

// flagDefs reads the flags registered on fs in definition order.
func flagDefs(cmd string, fs *flag.FlagSet) []flagDef {
	fs.SortFlags = false
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if f.Value.Type() == "bool" {
			d.Kind = flagBool
		}
		meta, ok := commandFlagMeta[cmd+"/"+f.Name]
		if !ok {
			meta, ok = flagCompletionMeta[f.Name]
		}
		if ok {
			switch {
			case len(meta.Values) > 0:
				d.Kind, d.Values = flagEnum, meta.Values
			case len(meta.Exts) > 0:
				d.Kind, d.Exts = flagFile, meta.Exts
			case meta.Dir:
				d.Kind = flagDir
			}
		}
		defs = append(defs, d)
	})
	return defs
}

// getCommands returns every command with the flags its parser accepts.
func getCommands() []commandDef {
	shells := make([]string, len(supportedShells))
	for i, s := range supportedShells {
		shells[i] = string(s)
	}
	cmds := []commandDef{
		{Name: "wizard", Desc: "Fill in an application interactively", Flags: flagDefs("wizard", wizardFlagSet(io.Discard, &wizardFlags{}))},
		{Name: "generate", Desc: "Generate documents from record files", Flags: flagDefs("generate", generateFlagSet(io.Discard, &generateFlags{})), Exts: []string{"yaml", "yml"}},
		{Name: "options", Desc: "List districts, local body types and local bodies", Flags: flagDefs("options", optionsFlagSet(io.Discard, &optionsFlags{}))},
		{Name: "guide", Desc: "Show how to submit the application", Flags: flagDefs("guide", guideFlagSet(io.Discard, &guideFlags{}))},
		{Name: "doctor", Desc: "Check configuration, assets and renderers", Flags: flagDefs("doctor", doctorFlagSet(io.Discard, &doctorFlags{}))},
		{Name: "completion", Desc: "Generate a shell completion script", Args: shells},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
	for _, c := range cmds {
		cmds[len(cmds)-1].Args = append(cmds[len(cmds)-1].Args, c.Name)
	}
	return cmds
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		return writeBash(w, cmds)
	case ShellZsh:
		return writeZsh(w, cmds)
	case ShellFish:
		return writeFish(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion prints a completion script, or usage without a shell.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rtiform completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script for bash, zsh or fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(rtiform completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(rtiform completion zsh)\"         # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:  rtiform completion fish > ~/.config/fish/completions/rtiform.fish")
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(f flagDef) []string {
	words := []string{"--" + f.Long}
	if f.Short != "" {
		words = append(words, "-"+f.Short)
	}
	return words
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

func writeBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for rtiform\n\n")
	b.WriteString("_rtiform_files() {\n")
	b.WriteString("    local IFS=$'\\n'\n")
	b.WriteString("    COMPREPLY+=( $(compgen -d -- \"$cur\") )\n")
	b.WriteString("    COMPREPLY+=( $(compgen -f -- \"$cur\" | grep -E \"\\\\.($1)\\$\") )\n")
	b.WriteString("}\n\n")
	b.WriteString("_rtiform() {\n")
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    local prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    COMPREPLY=()\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var all []string
		for _, f := range c.Flags {
			all = append(all, flagWords(f)...)
			if f.Kind == flagBool {
				continue
			}
			fmt.Fprintf(&b, "        if [[ \"$prev\" == %s ]]; then\n", strings.Join(flagWords(f), " || \"$prev\" == "))
			switch f.Kind {
			case flagEnum:
				fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, "            _rtiform_files %q\n", strings.Join(f.Exts, "|"))
			case flagDir:
				b.WriteString("            COMPREPLY=( $(compgen -d -- \"$cur\") )\n")
			}
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}

		if len(all) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(all, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, "        _rtiform_files %q\n", strings.Join(c.Exts, "|"))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _rtiform rtiform\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

// zshEscape makes s safe inside a single-quoted _arguments entry.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Kind {
	case flagBool:
		return ""
	case flagEnum:
		return ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		return ":" + f.Long + ":_files -g '*.(" + strings.Join(f.Exts, "|") + ")'"
	case flagDir:
		return ":" + f.Long + ":_files -/"
	default:
		return ":" + f.Long + ":"
	}
}

func writeZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef rtiform\n\n")
	b.WriteString("_rtiform() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  local cmd=${words[2]}\n")
	b.WriteString("  shift words\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case $cmd in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      _arguments")
		for _, f := range c.Flags {
			desc := "[" + zshEscape(f.Desc) + "]"
			// The action is single-quoted separately so file globs keep their quotes.
			action := strings.ReplaceAll(zshAction(f), "'", `'\''`)
			if f.Short != "" {
				fmt.Fprintf(&b, " \\\n        '(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(&b, " \\\n        '--%s%s%s'", f.Long, desc, action)
			}
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n        '1:argument:(%s)'", strings.Join(c.Args, " "))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, " \\\n        '*:file:_files -g '\\''*.(%s)'\\'''", strings.Join(c.Exts, "|"))
		}
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _rtiform rtiform\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

func writeFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for rtiform\n\n")
	b.WriteString("complete -c rtiform -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c rtiform -n '__fish_use_subcommand' -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c rtiform %s -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -d %s", fishQuote(f.Desc))
			switch f.Kind {
			case flagEnum:
				fmt.Fprintf(&b, " -xa %s", fishQuote(strings.Join(f.Values, " ")))
			case flagFile:
				fmt.Fprintf(&b, " -xa %s", fishQuote(fishSuffixes(f.Exts)))
			case flagDir:
				b.WriteString(" -xa '(__fish_complete_directories)'")
			case flagValue:
				b.WriteString(" -x")
			}
			b.WriteString("\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c rtiform %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, "complete -c rtiform %s -a %s\n", cond, fishQuote(fishSuffixes(c.Exts)))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func fishSuffixes(exts []string) string {
	sorted := append([]string(nil), exts...)
	sort.Strings(sorted)
	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = "(__fish_complete_suffix ." + e + ")"
	}
	return strings.Join(parts, " ")
}
