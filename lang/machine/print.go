package machine

import (
	"fmt"
	"strconv"
)

// FormatValue renders v the way the PRINT statement and the disassembler's
// constant listing show it. Numbers use Go's shortest round-tripping decimal form (strconv's
// 'g' verb with precision -1), matching the source implementation's use of
// "%.14g" closely enough that integral doubles print without a trailing
// ".0" and other doubles print with no superfluous digits.
func FormatValue(v Value) string {
	switch v.Kind() {
	case KindNil:
		return "nil"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.AsNumber(), 'g', -1, 64)
	case KindObj:
		return formatObj(v.AsObj())
	default:
		return "?"
	}
}

func formatObj(o Obj) string {
	switch o := o.(type) {
	case *ObjString:
		return o.Chars
	case *ObjFunction:
		if o.Name == nil {
			return "<script>"
		}
		return fmt.Sprintf("<fn %s>", o.Name.Chars)
	case *ObjClosure:
		return formatObj(o.Function)
	case *ObjUpvalue:
		return "upvalue"
	case *ObjClass:
		return o.Name.Chars
	case *ObjInstance:
		return fmt.Sprintf("%s instance", o.Class.Name.Chars)
	case *ObjBoundMethod:
		return formatObj(o.Method)
	case *ObjNative:
		return "<native fn>"
	default:
		return "<obj>"
	}
}
