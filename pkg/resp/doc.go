// Package resp implements the RESP3 wire format used to talk to a
// Redis-compatible key-value store.
//
// The package is organised around a single immutable value type:
//
//   - value.go: Value, Kind and the constructors for every wire type
//   - encode.go: Serialize / AppendValue (value -> bytes, never fails)
//   - decode.go: Parse / ParsePrefix / Decoder (bytes -> value)
//   - errors.go: parse error sentinels and ServerError
//
// Wire types:
//
//	_\r\n                      Null
//	#t\r\n #f\r\n              Boolean
//	:<int64>\r\n               Integer
//	(<digits>\r\n              BigInteger
//	,<float>\r\n               Double (inf, -inf, nan)
//	+<text>\r\n                SimpleString
//	-<text>\r\n                SimpleError
//	$<len>\r\n<bytes>\r\n      BulkString
//	!<len>\r\n<bytes>\r\n      BulkError
//	*<count>\r\n<values...>    Array
//
// Serialization and parsing are pure: nothing in this package holds
// connection state or mutates a Value after construction.
package resp
