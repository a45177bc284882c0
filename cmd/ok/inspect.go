package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgomes/okaylib/ok"
	"github.com/mgomes/okaylib/views"
)

// hierarchyFile is the YAML document read by `ok inspect`.
type hierarchyFile struct {
	Views   bool        `yaml:"views,omitempty"`
	Classes []classSpec `yaml:"classes"`
}

type classSpec struct {
	Name    string         `yaml:"name"`
	Parent  string         `yaml:"parent"`
	Include []string       `yaml:"include,omitempty"`
	Merge   []string       `yaml:"merge,omitempty"`
	Members map[string]any `yaml:"members,omitempty"`
}

func inspectCommand(args []string, cfg cliConfig) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	only := fs.String("class", "", "print only the named class")
	asYAML := fs.Bool("yaml", false, "print resolved classes as YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("ok inspect: hierarchy file required")
	}
	input, err := os.ReadFile(remaining[0])
	if err != nil {
		return fmt.Errorf("read hierarchy: %w", err)
	}
	var doc hierarchyFile
	if err := yaml.Unmarshal(input, &doc); err != nil {
		return fmt.Errorf("parse hierarchy: %w", err)
	}
	f, err := cfg.newFactory()
	if err != nil {
		return err
	}
	classes, err := buildHierarchy(f, doc)
	if err != nil {
		return err
	}
	var selected []*ok.Class
	for _, cls := range classes {
		if *only == "" || cls.Name() == *only {
			selected = append(selected, cls)
		}
	}
	if *asYAML {
		return writeYAML(os.Stdout, selected)
	}
	for _, cls := range selected {
		writeClass(os.Stdout, cls)
	}
	return nil
}

// buildHierarchy extends each declared class in file order. Parents and
// includes may name built-in classes or classes declared earlier.
func buildHierarchy(f *ok.Factory, doc hierarchyFile) ([]*ok.Class, error) {
	if doc.Views {
		if _, err := views.New(f); err != nil {
			return nil, err
		}
	}
	built := make([]*ok.Class, 0, len(doc.Classes))
	for i, spec := range doc.Classes {
		if spec.Name == "" {
			return nil, fmt.Errorf("class %d: name required", i)
		}
		parentName := spec.Parent
		if parentName == "" {
			parentName = "Base"
		}
		parent, found := f.Lookup(parentName)
		if !found {
			return nil, fmt.Errorf("class %s: unknown parent %q", spec.Name, parentName)
		}
		fragments := make([]ok.Value, 0, len(spec.Include)+1)
		for _, name := range spec.Include {
			mixin, found := f.Lookup(name)
			if !found {
				return nil, fmt.Errorf("class %s: unknown include %q", spec.Name, name)
			}
			fragments = append(fragments, mixin.Value())
		}
		own, err := classFragment(spec)
		if err != nil {
			return nil, err
		}
		cls, err := parent.Extend(append(fragments, own)...)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", spec.Name, err)
		}
		built = append(built, cls)
	}
	return built, nil
}

func classFragment(spec classSpec) (ok.Value, error) {
	members := make(map[string]ok.Value, len(spec.Members)+2)
	for name, raw := range spec.Members {
		if name == "constructor" {
			return ok.NewNil(), fmt.Errorf("class %s: constructor cannot be declared in YAML", spec.Name)
		}
		v, err := ok.FromGo(raw)
		if err != nil {
			return ok.NewNil(), fmt.Errorf("class %s member %s: %w", spec.Name, name, err)
		}
		members[name] = v
	}
	if len(spec.Merge) > 0 {
		members["mergeProperties"] = ok.Strings(spec.Merge...)
	}
	members["constructor"] = ok.Method(spec.Name, func(call *ok.Call, args []ok.Value) (ok.Value, error) {
		return call.SuperConstructor(args...)
	})
	return ok.NewHash(members), nil
}

func writeClass(w io.Writer, cls *ok.Class) {
	names := make([]string, 0, len(cls.Ancestors())+1)
	names = append(names, cls.Name())
	for _, ancestor := range cls.Ancestors() {
		names = append(names, ancestor.Name())
	}
	fmt.Fprintf(w, "%s (#%d)\n", cls.Name(), cls.ID())
	fmt.Fprintf(w, "  chain: %s\n", strings.Join(names, " > "))

	keys := cls.MergeKeys()
	policies := make([]string, 0, len(keys))
	for _, key := range keys {
		policy, _ := cls.MergePolicy(key)
		policies = append(policies, key+" ("+policy.String()+")")
	}
	fmt.Fprintf(w, "  merge: %s\n", strings.Join(policies, ", "))

	var methods []string
	fmt.Fprintln(w, "  members:")
	for _, name := range cls.MemberNames() {
		if name == "constructor" {
			continue
		}
		v, _ := cls.Member(name)
		if v.Kind() == ok.KindFunction {
			methods = append(methods, name)
			continue
		}
		fmt.Fprintf(w, "    %s = %s\n", name, v.String())
	}
	fmt.Fprintf(w, "  methods: %s\n", strings.Join(methods, ", "))
}

// resolvedClass is the YAML form of a built class.
type resolvedClass struct {
	Name    string            `yaml:"name"`
	Parent  string            `yaml:"parent"`
	Merge   map[string]string `yaml:"merge"`
	Members map[string]any    `yaml:"members,omitempty"`
	Methods []string          `yaml:"methods,omitempty"`
}

func writeYAML(w io.Writer, classes []*ok.Class) error {
	out := make([]resolvedClass, 0, len(classes))
	for _, cls := range classes {
		rc := resolvedClass{
			Name:    cls.Name(),
			Parent:  cls.Parent().Name(),
			Merge:   make(map[string]string),
			Members: make(map[string]any),
		}
		for _, key := range cls.MergeKeys() {
			policy, _ := cls.MergePolicy(key)
			rc.Merge[key] = policy.String()
		}
		for _, name := range cls.MemberNames() {
			if name == "constructor" {
				continue
			}
			v, _ := cls.Member(name)
			switch {
			case v.Kind() == ok.KindFunction:
				rc.Methods = append(rc.Methods, name)
			case isPlain(v):
				rc.Members[name] = ok.ToGo(v)
			default:
				rc.Members[name] = v.String()
			}
		}
		out = append(out, rc)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode classes: %w", err)
	}
	return enc.Close()
}

// isPlain reports whether v holds only scalars, arrays and hashes, which
// ToGo turns into data YAML can encode.
func isPlain(v ok.Value) bool {
	switch v.Kind() {
	case ok.KindNil, ok.KindBool, ok.KindInt, ok.KindFloat, ok.KindString:
		return true
	case ok.KindArray:
		for _, item := range v.Elements() {
			if !isPlain(item) {
				return false
			}
		}
		return true
	case ok.KindHash:
		for _, item := range v.Hash() {
			if !isPlain(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
