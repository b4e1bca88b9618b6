package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// validator collects issues while walking a script.
// Paths are JSON pointers into the script as submitted.
type validator struct {
	engine *Engine
	issues []Issue
}

func (v *validator) add(keyword, path, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Keyword:  keyword,
		DataPath: path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// expand rewrites {"$$exec.method": args} into the equivalent $exec instruction.
func (v *validator) expand(node any, path string) any {
	switch n := node.(type) {
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = v.expand(item, fmt.Sprintf("%s/%d", path, i))
		}
		return out
	case map[string]any:
		for key, value := range n {
			if !strings.HasPrefix(key, macroPrefix) {
				continue
			}
			if len(n) != 1 {
				v.add("macro", path, "macro %s must be the only property of its object", key)
				return nil
			}
			return v.expandMacro(key, value, path)
		}
		out := make(map[string]any, len(n))
		for key, value := range n {
			out[key] = v.expand(value, child(path, key))
		}
		return out
	default:
		return node
	}
}

func (v *validator) expandMacro(key string, value any, path string) any {
	name, method, _ := strings.Cut(strings.TrimPrefix(key, macroPrefix), ".")
	if name == "" {
		v.add("macro", path, "macro %s does not name an executor", key)
		return nil
	}
	instr := map[string]any{
		KeyExec: name,
		KeyArgs: v.expand(value, child(path, key)),
	}
	if method != "" {
		instr[KeyMethod] = method
	}
	return instr
}

func (v *validator) check(node any, path string) {
	switch n := node.(type) {
	case []any:
		for i, item := range n {
			v.check(item, fmt.Sprintf("%s/%d", path, i))
		}
	case map[string]any:
		v.checkObject(n, path)
	}
}

func (v *validator) checkObject(obj map[string]any, path string) {
	_, hasExec := obj[KeyExec]
	_, hasData := obj[KeyData]
	instruction := hasExec || hasData

	if hasExec && hasData {
		v.add("oneOf", path, "instruction must use either %s or %s", KeyExec, KeyData)
	}

	for _, key := range sortedKeys(obj) {
		value := obj[key]
		at := child(path, key)

		switch key {
		case KeyExec:
			if name, ok := value.(string); !ok || name == "" {
				v.add("type", at, "%s should be a non-empty string", KeyExec)
			}
		case KeyMethod:
			if !hasExec {
				v.add("required", path, "%s requires %s", key, KeyExec)
			} else if _, ok := value.(string); !ok {
				v.add("type", at, "%s should be a string", KeyMethod)
			}
		case KeyArgs:
			if !hasExec {
				v.add("required", path, "%s requires %s", key, KeyExec)
			}
			v.check(value, at)
		case KeyData:
			ptr, ok := value.(string)
			if !ok {
				v.add("type", at, "%s should be a string", KeyData)
				continue
			}
			if _, err := jsonpointer.New(ptr); err != nil {
				v.add("format", at, "%s should be a JSON pointer: %v", KeyData, err)
			}
		default:
			switch {
			case strings.HasPrefix(key, "$"):
				v.add("keyword", at, "unknown keyword %s", key)
			case instruction:
				if v.engine.strict {
					v.add("additionalProperties", at, "should NOT have additional properties")
				}
			default:
				v.check(value, at)
			}
		}
	}

	if hasExec {
		v.checkExecutor(obj, path)
	}
}

func (v *validator) checkExecutor(instr map[string]any, path string) {
	name, ok := instr[KeyExec].(string)
	if !ok || name == "" {
		return
	}
	method := ""
	if raw, present := instr[KeyMethod]; present {
		m, ok := raw.(string)
		if !ok {
			return
		}
		method = m
	}
	if v.engine.executors.Has(name, method) {
		return
	}
	target := name
	if method != "" {
		target = name + "." + method
	}
	v.add("executor", child(path, KeyExec), "unknown executor %s", target)
}

func child(path, key string) string {
	return path + "/" + jsonpointer.Escape(key)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
