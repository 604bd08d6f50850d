package capability

import (
	"context"
	"fmt"
)

// Func is the uniform host-call shape injected into the sandbox: positional
// guest arguments in, one JSON-safe value out.
type Func func(ctx context.Context, args []interface{}) (interface{}, error)

// Binding pairs a guest-visible name with a host function. The table is
// enumerated by hand: an operation absent from this list does not exist as
// far as guest code is concerned.
type Binding struct {
	Name string
	Func Func
}

// Bindings returns the full vault operation table bound to this proxy's
// permission context.
func (p *Proxy) Bindings() []Binding {
	return []Binding{
		{"read", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			return p.Read(ctx, path)
		}},
		{"write", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			content, err := stringArg(args, 1, "content")
			if err != nil {
				return nil, err
			}
			return nil, p.Write(ctx, path, content)
		}},
		{"append", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			content, err := stringArg(args, 1, "content")
			if err != nil {
				return nil, err
			}
			return nil, p.Append(ctx, path, content)
		}},
		{"delete", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			return nil, p.Delete(ctx, path)
		}},
		{"move", func(ctx context.Context, args []interface{}) (interface{}, error) {
			src, err := stringArg(args, 0, "source")
			if err != nil {
				return nil, err
			}
			dst, err := stringArg(args, 1, "destination")
			if err != nil {
				return nil, err
			}
			return nil, p.Move(ctx, src, dst)
		}},
		{"rename", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			name, err := stringArg(args, 1, "new_name")
			if err != nil {
				return nil, err
			}
			return nil, p.Rename(ctx, path, name)
		}},
		{"list", func(ctx context.Context, args []interface{}) (interface{}, error) {
			dir := optionalStringArg(args, 0)
			return p.List(ctx, dir)
		}},
		{"exists", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			return p.Exists(ctx, path)
		}},
		{"search", func(ctx context.Context, args []interface{}) (interface{}, error) {
			query, err := stringArg(args, 0, "query")
			if err != nil {
				return nil, err
			}
			return p.Search(ctx, query)
		}},
		{"bulkDelete", func(ctx context.Context, args []interface{}) (interface{}, error) {
			pattern, err := stringArg(args, 0, "pattern")
			if err != nil {
				return nil, err
			}
			// Dry-run unless the options object carries live: true.
			live := false
			if opts := optionalObjectArg(args, 1); opts != nil {
				live, _ = opts["live"].(bool)
			}
			return p.BulkDelete(ctx, pattern, !live)
		}},
		{"getFrontmatter", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			return p.GetFrontmatter(ctx, path)
		}},
		{"setFrontmatter", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			fm, err := objectArg(args, 1, "frontmatter")
			if err != nil {
				return nil, err
			}
			return nil, p.SetFrontmatter(ctx, path, fm)
		}},
		{"getTags", func(ctx context.Context, args []interface{}) (interface{}, error) {
			path, err := stringArg(args, 0, "path")
			if err != nil {
				return nil, err
			}
			return p.GetTags(ctx, path)
		}},
	}
}

func stringArg(args []interface{}, idx int, name string) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("%s argument required", name)
	}
	s, ok := args[idx].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be a string", name)
	}
	return s, nil
}

func optionalStringArg(args []interface{}, idx int) string {
	if idx >= len(args) {
		return ""
	}
	s, _ := args[idx].(string)
	return s
}

func objectArg(args []interface{}, idx int, name string) (map[string]interface{}, error) {
	if idx >= len(args) {
		return nil, fmt.Errorf("%s argument required", name)
	}
	obj, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s argument must be an object", name)
	}
	return obj, nil
}

func optionalObjectArg(args []interface{}, idx int) map[string]interface{} {
	if idx >= len(args) {
		return nil
	}
	obj, _ := args[idx].(map[string]interface{})
	return obj
}
