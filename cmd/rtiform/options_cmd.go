package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/hints"
)

// runOptionsCmd lists districts and types, or the local bodies for a
// district and type.
func runOptionsCmd(args []string, env *Environment) error {
	flags, positional, err := parseOptionsFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	if flags.assetPath != "" {
		cfg.Directory.Path = flags.assetPath
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}
	dir, err := loadDirectory(cfg, env)
	if err != nil {
		return err
	}

	switch len(positional) {
	case 0:
		printList(env.Stdout, "Districts", dir.Districts())
		fmt.Fprintln(env.Stdout)
		printList(env.Stdout, "Local body types", dir.LocalBodyTypes())
		return nil
	case 2:
		return printLocalBodies(env.Stdout, dir, positional[0], positional[1])
	default:
		printOptionsUsage(env.Stderr)
		return fmt.Errorf("%w: options takes no arguments or a district and a local body type", ErrUnknownCommand)
	}
}

// printLocalBodies lists the options for district and type. Matching is
// case-insensitive. A pair missing from the table prints the placeholders.
func printLocalBodies(w io.Writer, dir *rtiform.Directory, district, bodyType string) error {
	d, ok := matchFold(dir.Districts(), district)
	if !ok {
		return fmt.Errorf("%w: %q%s", ErrUnknownDistrict, district, hints.ForUnknownDistrict(dir.Districts()))
	}
	t, ok := matchFold(dir.LocalBodyTypes(), bodyType)
	if !ok {
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBodyType, bodyType, strings.Join(dir.LocalBodyTypes(), ", "))
	}

	names, found := dir.Options(d, t)
	title := fmt.Sprintf("%s in %s", t, d)
	if !found {
		title += " (not in the table, placeholders shown)"
	}
	printList(w, title, names)
	return nil
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  %s\n", it)
	}
}

func matchFold(values []string, s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}
