package reader

import (
	"bytes"
	"encoding/json"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir/constant"
	"github.com/pkg/errors"
	"github.com/pontaoski/tinyc/codegen"
)

// ReadTypeInfo recovers the signatures embedded in a textual LLVM IR file
// written by the build command.
func ReadTypeInfo(from string) (codegen.TypeInfo, error) {
	m, err := asm.ParseFile(from)
	if err != nil {
		return codegen.TypeInfo{}, errors.Wrapf(err, "parsing %s", from)
	}

	for _, g := range m.Globals {
		if g.Name() != codegen.TypeInfoSymbol {
			continue
		}
		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return codegen.TypeInfo{}, errors.Errorf("%s: %s is not a character array", from, codegen.TypeInfoSymbol)
		}

		var t codegen.TypeInfo
		data := bytes.TrimRight(arr.X, "\x00")
		if err := json.Unmarshal(data, &t); err != nil {
			return codegen.TypeInfo{}, errors.Wrapf(err, "%s: decoding %s", from, codegen.TypeInfoSymbol)
		}
		return t, nil
	}

	return codegen.TypeInfo{}, errors.Errorf("%s has no %s global", from, codegen.TypeInfoSymbol)
}
