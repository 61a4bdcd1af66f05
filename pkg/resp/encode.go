package resp

import "strconv"

const crlf = "\r\n"

// Serialize returns the wire encoding of v. It never fails.
func Serialize(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire encoding of v to dst and returns the
// extended buffer.
func AppendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case KindNull:
		return append(dst, "_\r\n"...)

	case KindBoolean:
		if v.Bool() {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)

	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.num, 10)
		return append(dst, crlf...)

	case KindBigInteger:
		dst = append(dst, '(')
		dst = v.big.Append(dst, 10)
		return append(dst, crlf...)

	case KindDouble:
		dst = append(dst, ',')
		dst = append(dst, FormatDouble(v.dbl)...)
		return append(dst, crlf...)

	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.text...)
		return append(dst, crlf...)

	case KindSimpleError:
		dst = append(dst, '-')
		dst = append(dst, v.text...)
		return append(dst, crlf...)

	case KindBulkString:
		// The empty bulk string has a short canonical form with no body.
		if v.text == "" {
			return append(dst, "$0\r\n"...)
		}
		return appendBulk(dst, '$', v.text)

	case KindBulkError:
		return appendBulk(dst, '!', v.text)

	case KindArray:
		if len(v.elems) == 0 {
			return append(dst, "*0\r\n"...)
		}
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.elems)), 10)
		dst = append(dst, crlf...)
		for _, e := range v.elems {
			dst = AppendValue(dst, e)
		}
		return dst
	}
	// Unreachable for values built through the constructors.
	return append(dst, "_\r\n"...)
}

func appendBulk(dst []byte, marker byte, s string) []byte {
	dst = append(dst, marker)
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, crlf...)
	dst = append(dst, s...)
	return append(dst, crlf...)
}
