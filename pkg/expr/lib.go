package expr

import (
	"path/filepath"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(path) == "hookify.env.local.md".
		pathFunction("pathBase", "path_base", filepath.Base),

		// `pathDir` returns all but the last element of the path.
		// Example: pathDir(path).endsWith("/.claude").
		pathFunction("pathDir", "path_dir", filepath.Dir),

		// `pathExt` returns the file extension of the path.
		// Example: pathExt(path) == ".md".
		pathFunction("pathExt", "path_ext", filepath.Ext),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func pathFunction(name, overload string, fn func(string) string) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(overload, []*cel.Type{cel.StringType}, cel.StringType,
			cel.UnaryBinding(func(path ref.Val) ref.Val {
				pathValue, ok := path.Value().(string)
				if !ok {
					return types.NewErr("%s: invalid string value", name)
				}

				return types.String(fn(pathValue))
			}),
		),
	)
}
